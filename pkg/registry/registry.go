package registry

import (
	"fmt"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/database"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// Registry is the durable catalog of installable services. The depends_on
// column is a self reference; we rebuild the graph in memory per call and
// resolve install order here so the installer never walks raw rows.
type Registry struct {
	db database.Database
}

func New(db database.Database) *Registry {
	return &Registry{db: db}
}

// Service returns one service by name.
func (r *Registry) Service(name string) (*structs.Service, error) {
	found, err := r.db.Services([]string{name})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w service %s", errors.ErrNotFound, name)
	}
	return found[0], nil
}

// Services returns the catalog. Dependency-only services are hidden unless
// includeDependencies is set.
func (r *Registry) Services(includeDependencies bool) ([]*structs.Service, error) {
	all, err := r.db.Services(nil)
	if err != nil {
		return nil, err
	}
	if includeDependencies {
		return all, nil
	}
	out := []*structs.Service{}
	for _, s := range all {
		if !s.IsDependency {
			out = append(out, s)
		}
	}
	return out, nil
}

// InstallChain resolves the full dependency chain for a service: deepest
// ancestor first, the requested service last. Errors on unknown services,
// dangling references and cycles.
func (r *Registry) InstallChain(name string) ([]*structs.Service, error) {
	all, err := r.db.Services(nil)
	if err != nil {
		return nil, err
	}
	byName := map[string]*structs.Service{}
	for _, s := range all {
		byName[s.Name] = s
	}

	chain := []*structs.Service{}
	seen := map[string]bool{}
	for cur := name; cur != ""; {
		if seen[cur] {
			return nil, fmt.Errorf("%w via service %s", errors.ErrCycle, cur)
		}
		seen[cur] = true

		svc, ok := byName[cur]
		if !ok {
			return nil, fmt.Errorf("%w service %s", errors.ErrNotFound, cur)
		}
		chain = append([]*structs.Service{svc}, chain...)
		cur = svc.DependsOn
	}
	return chain, nil
}

// ValidateGraph checks a would-be catalog: unique non-empty names, images
// set, dependency references existing & non-self, and no cycles. Called at
// config load so broken graphs never reach the database.
func ValidateGraph(services []*structs.Service) error {
	byName := map[string]*structs.Service{}
	for _, s := range services {
		if s.Name == "" {
			return fmt.Errorf("%w service name is required", errors.ErrValidation)
		}
		if s.Image == "" {
			return fmt.Errorf("%w service %s has no image", errors.ErrValidation, s.Name)
		}
		if _, ok := byName[s.Name]; ok {
			return fmt.Errorf("%w duplicate service %s", errors.ErrValidation, s.Name)
		}
		byName[s.Name] = s
	}

	for _, s := range services {
		if s.DependsOn == "" {
			continue
		}
		if s.DependsOn == s.Name {
			return fmt.Errorf("%w service %s depends on itself", errors.ErrValidation, s.Name)
		}
		if _, ok := byName[s.DependsOn]; !ok {
			return fmt.Errorf("%w service %s depends on unknown service %s", errors.ErrValidation, s.Name, s.DependsOn)
		}
	}

	// walk every node's ancestor chain; a repeat is a cycle
	for _, s := range services {
		seen := map[string]bool{}
		for cur := s.Name; cur != ""; cur = byName[cur].DependsOn {
			if seen[cur] {
				return fmt.Errorf("%w via service %s", errors.ErrCycle, cur)
			}
			seen[cur] = true
		}
	}
	return nil
}
