package serial

// CloseReason tells an Observer why a session ended
type CloseReason int

const (
	CloseExplicit CloseReason = iota
	CloseDisconnected
)

func (r CloseReason) String() string {
	if r == CloseDisconnected {
		return "disconnected"
	}
	return "explicit"
}

// Observer receives session events. Calls are made while the session lock is
// held, so implementations must not call back into the Manager.
type Observer interface {
	SessionOpened(port string)
	OpenFailed(port string, err error)
	SessionClosed(port string, reason CloseReason)
	BytesRead(n int)
	ReadFailed(kind ErrorKind)
}

type nopObserver struct{}

func (nopObserver) SessionOpened(string)              {}
func (nopObserver) OpenFailed(string, error)          {}
func (nopObserver) SessionClosed(string, CloseReason) {}
func (nopObserver) BytesRead(int)                     {}
func (nopObserver) ReadFailed(ErrorKind)              {}
