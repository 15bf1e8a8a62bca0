package internal

// Version is the current kotobakit release
const Version = "0.3.0"
