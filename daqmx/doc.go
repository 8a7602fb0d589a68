/*Package daqmx is a safe layer over the National Instruments DAQmx C API.

A Task owns one native task handle and releases it exactly once.  The
analog input channels of a task are reached through its AIChannelCollection,
which holds no state of its own and asks the driver on every call:

	task, err := daqmx.NewTask(drv, "scan")
	if err != nil {
		log.Fatal(err)
	}
	defer task.Close()

	chans := task.AIChannels()
	if _, err := chans.AddAIVoltageChan("Dev1/ai0", -5, 5); err != nil {
		log.Fatal(err)
	}
	names, err := chans.ChannelNames() // [Dev1/ai0]

The driver itself is anything that satisfies Driver.  Package daqmx/nidaqmx
binds the real library with cgo, package daqmx/simulated is an in-memory
stand-in.

Failed driver calls are returned as *Error, which carries the native status
code verbatim together with the driver's text for it.  Strings of unknown
length are pulled out of the driver by calling with an empty buffer, reading
the required size from the status code, and calling again, see
MaxStringQueryAttempts.

Calls on one task are serialized.  The library's own thread safety is not
relied upon.
*/
package daqmx
