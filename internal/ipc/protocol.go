package ipc

// D-Bus addressing for the daemon's request surface.
const (
	ServiceName   = "io.github.yusufnuru.undrift"
	ObjectPath    = "/io/github/yusufnuru/undrift"
	InterfaceName = "io.github.yusufnuru.undrift.Manager"
)

// Bridge addressing: the browser companion emits tab/window/idle events
// as signals on this interface.
const (
	BridgeInterface = "io.github.yusufnuru.undrift.Bridge"
	BridgePath      = "/io/github/yusufnuru/undrift/bridge"

	SignalTabActivated       = BridgeInterface + ".TabActivated"
	SignalTabUpdated         = BridgeInterface + ".TabUpdated"
	SignalTabRemoved         = BridgeInterface + ".TabRemoved"
	SignalWindowFocusChanged = BridgeInterface + ".WindowFocusChanged"
	SignalIdleStateChanged   = BridgeInterface + ".IdleStateChanged"
)

// prefPrefix namespaces the lightweight preference records owned by UI
// collaborators. The core never interprets their contents.
const prefPrefix = "pref:"

// Preference names accepted by Get/SetPreference.
var knownPreferences = map[string]bool{
	"personalReason":       true,
	"notificationSettings": true,
}
