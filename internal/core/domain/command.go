package domain

// Command is a process invocation derived from a hook.
type Command struct {
	// Name labels the command in logs and spans.
	Name string
	// Args holds the executable followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is merged over the inherited system environment.
	Env map[string]string
}
