package registry

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// Catalog is the administrative seed file for the service registry.
type Catalog struct {
	Services []structs.ServiceSpec `yaml:"services"`
}

// LoadCatalog reads & validates a catalog file. A catalog that fails graph
// validation (cycles, dangling references) is rejected here, before any
// database write.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat := &Catalog{}
	if err = yaml.Unmarshal(data, cat); err != nil {
		return nil, err
	}
	if err = ValidateGraph(cat.services()); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) services() []*structs.Service {
	out := []*structs.Service{}
	for i := range c.Services {
		out = append(out, &structs.Service{ServiceSpec: c.Services[i], InstallationStatus: structs.IDLE})
	}
	return out
}

// SyncFromConfig upserts a catalog file into the registry. Spec fields are
// updated in place; installation state on existing rows is untouched.
func (r *Registry) SyncFromConfig(path string) error {
	cat, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	return r.db.UpsertServices(cat.services())
}
