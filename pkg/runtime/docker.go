package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

const (
	// containers we create carry this prefix so status listings only
	// report what we manage
	containerPrefix = "nomad-"
)

// Docker is a Driver that shells out to the docker CLI on the host.
type Docker struct {
	// Binary is the docker executable, "docker" by default.
	Binary string
}

func NewDocker() *Docker {
	return &Docker{Binary: "docker"}
}

func (d *Docker) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, d.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return "", fmt.Errorf("%w %s %s: %s (%v)", errors.ErrRuntime, d.Binary, args[0], strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// PullImage fetches the service's image.
func (d *Docker) PullImage(ctx context.Context, svc *structs.Service) error {
	_, err := d.run(ctx, "pull", svc.Image)
	return err
}

// CreateContainer builds a container from the service spec without starting it.
func (d *Docker) CreateContainer(ctx context.Context, svc *structs.Service) (string, error) {
	return d.run(ctx, createArgs(svc)...)
}

// StartContainer starts a created container.
func (d *Docker) StartContainer(ctx context.Context, id string) error {
	_, err := d.run(ctx, "start", id)
	return err
}

// ServicesStatus reports all containers we manage.
func (d *Docker) ServicesStatus(ctx context.Context) ([]*ServiceStatus, error) {
	out, err := d.run(ctx,
		"ps", "--all",
		"--filter", "name="+containerPrefix,
		"--format", "{{.Names}}\t{{.ID}}\t{{.Status}}",
	)
	if err != nil {
		return nil, err
	}

	statuses := []*ServiceStatus{}
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "\t", 3)
		if len(parts) != 3 {
			continue
		}
		statuses = append(statuses, &ServiceStatus{
			ServiceName: strings.TrimPrefix(parts[0], containerPrefix),
			ContainerID: parts[1],
			Status:      parts[2],
		})
	}
	return statuses, nil
}

// createArgs builds the docker create argument list from a service spec.
func createArgs(svc *structs.Service) []string {
	args := []string{
		"create",
		"--name", containerPrefix + svc.Name,
		"--restart", "unless-stopped",
	}

	// sorted so the command line is deterministic
	hostPorts := []int{}
	for host := range svc.Ports {
		hostPorts = append(hostPorts, host)
	}
	sort.Ints(hostPorts)
	for _, host := range hostPorts {
		args = append(args, "-p", fmt.Sprintf("%d:%d", host, svc.Ports[host]))
	}

	envKeys := []string{}
	for k := range svc.Env {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	for _, k := range envKeys {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, svc.Env[k]))
	}

	args = append(args, svc.Image)
	args = append(args, svc.Command...)
	return args
}
