package engine

import "os/exec"

// killProcessGroupOnCancel keeps the default which kills the direct child only.
// Output of leftover descendants is cut off after pipeDrainDelay.
func killProcessGroupOnCancel(cmd *exec.Cmd) {}
