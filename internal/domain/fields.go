package domain

// Journal field names understood by the query engine.
const (
	// FieldMessageID is the 128-bit message identifier for recognizing certain message types.
	FieldMessageID = "MESSAGE_ID"
	// FieldMessage is the human-readable message string for this entry.
	FieldMessage = "MESSAGE"
	// FieldPriority is a value between 0 ("emerg") and 7 ("debug").
	FieldPriority = "PRIORITY"
	// FieldErrno is the low-level Unix error number causing this entry, if any.
	FieldErrno = "ERRNO"
	// FieldSourceRealtimeTimestamp is the time in microseconds since the epoch UTC,
	// formatted as a decimal string, at which the message was generated.
	FieldSourceRealtimeTimestamp = "_SOURCE_REALTIME_TIMESTAMP"

	// FieldPID is the process ID the entry originates from.
	FieldPID = "_PID"
	// FieldUID is the user ID the entry originates from.
	FieldUID = "_UID"
	// FieldGID is the group ID the entry originates from.
	FieldGID = "_GID"

	// FieldComm is the name of the originating process.
	FieldComm = "_COMM"
	// FieldExe is the executable path of the originating process.
	FieldExe = "_EXE"
	// FieldCmdline is the command line of the originating process.
	FieldCmdline = "_CMDLINE"

	// FieldSystemdSlice is the systemd slice unit name.
	FieldSystemdSlice = "_SYSTEMD_SLICE"
	// FieldSystemdUnit is the systemd unit name.
	FieldSystemdUnit = "_SYSTEMD_UNIT"
	// FieldSystemdCgroup is the control group path in the systemd hierarchy.
	FieldSystemdCgroup = "_SYSTEMD_CGROUP"
	// FieldUnit is set by the service manager on messages about a unit.
	FieldUnit = "UNIT"

	// FieldBootID is the kernel boot ID.
	FieldBootID = "_BOOT_ID"
	// FieldTransport is how the entry was received by the journal service.
	FieldTransport = "_TRANSPORT"

	// FieldRealtime is not stored on entries. Projecting it returns the
	// receipt timestamp of the entry (microseconds since the epoch).
	FieldRealtime = "__REALTIME"
)

// Transports accepted by FieldTransport.
const (
	// TransportAudit is for entries read from the kernel audit subsystem.
	TransportAudit = "audit"
	// TransportDriver is for internally generated messages.
	TransportDriver = "driver"
	// TransportSyslog is for entries received via the local syslog socket.
	TransportSyslog = "syslog"
	// TransportJournal is for entries received via the native journal protocol.
	TransportJournal = "journal"
	// TransportStdout is for entries read from a service's stdout or stderr.
	TransportStdout = "stdout"
	// TransportKernel is for entries read from the kernel.
	TransportKernel = "kernel"
)

// MaxPriority is the least severe syslog priority ("debug").
const MaxPriority = 7

// DefaultFields returns the projection used when a query does not name its own fields.
func DefaultFields() []string {
	return []string{
		FieldMessage,
		FieldPriority,
		FieldErrno,
		FieldSourceRealtimeTimestamp,
		FieldPID,
		FieldUID,
		FieldComm,
		FieldSystemdSlice,
		FieldSystemdUnit,
		FieldSystemdCgroup,
		FieldBootID,
		FieldTransport,
	}
}

// DefaultTransports returns the transports a query matches unless told otherwise.
func DefaultTransports() []string {
	return []string{TransportSyslog, TransportJournal, TransportStdout}
}

// IsTransport reports whether t is a transport the journal can record.
func IsTransport(t string) bool {
	switch t {
	case TransportAudit, TransportDriver, TransportSyslog, TransportJournal, TransportStdout, TransportKernel:
		return true
	}
	return false
}
