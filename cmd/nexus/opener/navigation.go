package opener

import (
	"github.com/papercomputeco/nexus/pkg/dotdir"
	"github.com/papercomputeco/nexus/pkg/navigator"
)

// Session restores the navigation session persisted by earlier commands. A
// state saved against another source, or whose focus vanished from the
// snapshot, is discarded and the session starts Idle.
func (o *Opened) Session() (*navigator.Session, error) {
	sess := o.Engine.NewSession()

	manager := dotdir.NewManager()
	state, err := manager.LoadNavigationState(o.ConfigDir)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return sess, nil
	}

	if state.Source != o.Store.Source().Name() {
		o.Logger.Debug("ignoring navigation state of another snapshot", "source", state.Source)
		return sess, nil
	}

	restored := navigator.SessionState{Current: state.Current, History: state.History}
	if err := sess.Restore(restored); err != nil {
		o.Logger.Warn("discarding navigation state", "error", err)
		if err := manager.ClearNavigationState(o.ConfigDir); err != nil {
			return nil, err
		}
	}

	return sess, nil
}

// SaveSession persists sess for the next command. An Idle session removes the
// state file.
func (o *Opened) SaveSession(sess *navigator.Session) error {
	manager := dotdir.NewManager()
	if sess.Mode() == navigator.Idle {
		return manager.ClearNavigationState(o.ConfigDir)
	}

	st := sess.State()
	return manager.SaveNavigationState(&dotdir.NavigationState{
		Source:  o.Store.Source().Name(),
		Current: st.Current,
		History: st.History,
	}, o.ConfigDir)
}
