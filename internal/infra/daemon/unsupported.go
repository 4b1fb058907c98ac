//go:build !linux && !darwin

package daemon

import "context"

func platformServiceName() string {
	return defaultBinaryName
}

func platformInstall(context.Context, *Manager, serviceSpec) error {
	return ErrUnsupported
}

func platformUninstall(context.Context, *Manager) error {
	return ErrUnsupported
}

func platformStart(context.Context, *Manager) error {
	return ErrUnsupported
}

func platformStop(context.Context, *Manager) error {
	return ErrUnsupported
}

func platformStatus(context.Context, *Manager) (bool, bool, error) {
	return false, false, ErrUnsupported
}
