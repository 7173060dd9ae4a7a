package analytics

// Version of the CDS analytics.
const Version = "1.7.0"

// VersionString describes the analytics for display.
func VersionString() string {
	return "CDS Standard Model Version " + Version
}
