package email

const (
	subjectAlertDigestFmt = "Pipeline alerts: %d new"
)
