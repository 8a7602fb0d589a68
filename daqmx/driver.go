package daqmx

// TaskHandle is the opaque handle the driver hands out for a task.
// The zero value never refers to a live task.
type TaskHandle uintptr

// TerminalConfig is the input terminal configuration of an analog channel
type TerminalConfig int32

// VoltageUnits are the units a voltage channel reports in
type VoltageUnits int32

const (
	// ValCfgDefault lets the driver choose the terminal configuration
	ValCfgDefault TerminalConfig = -1

	// ValRSE is referenced single-ended
	ValRSE TerminalConfig = 10083

	// ValNRSE is non-referenced single-ended
	ValNRSE TerminalConfig = 10078

	// ValDiff is differential
	ValDiff TerminalConfig = 10106

	// ValPseudoDiff is pseudodifferential
	ValPseudoDiff TerminalConfig = 12529

	// ValVolts reports in volts
	ValVolts VoltageUnits = 10348
)

var terminalConfigNames = map[string]TerminalConfig{
	"":           ValCfgDefault,
	"default":    ValCfgDefault,
	"rse":        ValRSE,
	"nrse":       ValNRSE,
	"diff":       ValDiff,
	"pseudodiff": ValPseudoDiff,
}

// ParseTerminalConfig converts a case-sensitive lowercase name
// ("default", "rse", "nrse", "diff", "pseudodiff") to a TerminalConfig.
// The empty string is the driver default.
func ParseTerminalConfig(s string) (TerminalConfig, error) {
	if tc, ok := terminalConfigNames[s]; ok {
		return tc, nil
	}
	return 0, invalidArgument("ParseTerminalConfig", "unknown terminal configuration "+s)
}

// Driver is the function-call surface of the native DAQmx library.
//
// Every method returns the raw status code of the underlying entry point:
// negative is an error, zero is success, positive is a warning.  The string
// queries follow the DAQmx convention: called with an empty buffer, a
// positive return is the number of bytes required including the terminator.
//
// Implementations are not required to be safe for concurrent use; package
// daqmx serializes calls per task.
type Driver interface {
	// CreateTask is DAQmxCreateTask
	CreateTask(name string) (TaskHandle, int32)

	// ClearTask is DAQmxClearTask
	ClearTask(h TaskHandle) int32

	// CreateAIVoltageChan is DAQmxCreateAIVoltageChan
	CreateAIVoltageChan(h TaskHandle, physicalChannel, nameToAssign string,
		terminalConfig TerminalConfig, min, max float64,
		units VoltageUnits, customScaleName string) int32

	// GetTaskChannels is DAQmxGetTaskChannels
	GetTaskChannels(h TaskHandle, buf []byte) int32

	// GetErrorString is DAQmxGetErrorString
	GetErrorString(code int32, buf []byte) int32

	// GetExtendedErrorInfo is DAQmxGetExtendedErrorInfo.  It describes the
	// last error on the calling OS thread.
	GetExtendedErrorInfo(buf []byte) int32
}
