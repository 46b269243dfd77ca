package config

const (
	defaultSnapshotDriver = "file"
	defaultAPIListen      = "127.0.0.1:8008"
	defaultSessionTTL     = "30m"

	defaultNavigationPageSize     = 10
	defaultNavigationPreviewWidth = 70
	defaultTracePreviewWidth      = 80
	defaultInsightsPageSize       = 20
	defaultInsightNodeType        = "KnowledgeCrystalNode"

	defaultEventsTopic = "nexus.snapshots"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Snapshot: SnapshotConfig{
			Driver: defaultSnapshotDriver,
		},
		API: APIConfig{
			Listen:     defaultAPIListen,
			SessionTTL: defaultSessionTTL,
		},
		Navigation: NavigationConfig{
			PageSize:     defaultNavigationPageSize,
			PreviewWidth: defaultNavigationPreviewWidth,
		},
		Trace: TraceConfig{
			PreviewWidth: defaultTracePreviewWidth,
		},
		Insights: InsightsConfig{
			PageSize: defaultInsightsPageSize,
			NodeType: defaultInsightNodeType,
		},
		Events: EventsConfig{
			Topic: defaultEventsTopic,
		},
	}
}
