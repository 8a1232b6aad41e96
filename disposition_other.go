//go:build unix && !(linux && (386 || amd64 || arm || arm64 || ppc64 || ppc64le || s390x))

package sigfd

import "syscall"

func queryAction(syscall.Signal) (Action, error) {
	return Action{}, nil
}
