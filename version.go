package switchboard

// Version is the release of the switchboard module.
var Version = "0.4.0"
