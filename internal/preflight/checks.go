package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"semdaudit/internal/config"
	"semdaudit/internal/semd"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatabase opens the document store and pings it.
func CheckDatabase(ctx context.Context, cfg *config.Config) Result {
	name := fmt.Sprintf("Database (%s)", cfg.Database.Driver)

	store, err := semd.Open(ctx, cfg, nil)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckRegistrarBinary verifies that the first word of the registrar command
// resolves to an executable.
func CheckRegistrarBinary(cfg *config.Config) Result {
	const name = "Registrar command"

	binary := strings.TrimSpace(cfg.RegistrarBinary())
	if binary == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", binary)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}
