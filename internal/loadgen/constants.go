package loadgen

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)

// Reporting constants.
const (
	percentageMultiplier = 100
	directoryPermission  = 0750
	outputFilePermission = 0600
)
