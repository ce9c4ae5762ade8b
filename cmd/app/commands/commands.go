package commands

type command string

/*
Commands - commands that run on main
*/
var (
	API           command = "api"
	PruneSessions command = "prune-sessions"
)
