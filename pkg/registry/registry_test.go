package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/mocks/pkg/database_mock"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

func svc(name, dependsOn string, isDep bool) *structs.Service {
	return &structs.Service{
		ServiceSpec: structs.ServiceSpec{
			Name:         name,
			Image:        name + ":latest",
			DependsOn:    dependsOn,
			IsDependency: isDep,
		},
		InstallationStatus: structs.IDLE,
	}
}

func TestServiceNotFound(t *testing.T) {
	db := database_mock.NewMockDatabase(gomock.NewController(t))
	reg := New(db)

	db.EXPECT().Services([]string{"nope"}).Return([]*structs.Service{}, nil)

	_, err := reg.Service("nope")

	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestServicesHidesDependencies(t *testing.T) {
	db := database_mock.NewMockDatabase(gomock.NewController(t))
	reg := New(db)

	db.EXPECT().Services(nil).Return([]*structs.Service{
		svc("kiwix", "", false),
		svc("ollama", "", true),
		svc("open-webui", "ollama", false),
	}, nil)

	result, err := reg.Services(false)

	assert.Nil(t, err)
	assert.Equal(t, 2, len(result))
	assert.Equal(t, "kiwix", result[0].Name)
	assert.Equal(t, "open-webui", result[1].Name)
}

func TestInstallChain(t *testing.T) {
	db := database_mock.NewMockDatabase(gomock.NewController(t))
	reg := New(db)

	db.EXPECT().Services(nil).Return([]*structs.Service{
		svc("open-webui", "ollama", false),
		svc("ollama", "", true),
		svc("kiwix", "", false),
	}, nil)

	chain, err := reg.InstallChain("open-webui")

	assert.Nil(t, err)
	assert.Equal(t, 2, len(chain))
	// deepest ancestor first, requested service last
	assert.Equal(t, "ollama", chain[0].Name)
	assert.Equal(t, "open-webui", chain[1].Name)
}

func TestInstallChainNoDependency(t *testing.T) {
	db := database_mock.NewMockDatabase(gomock.NewController(t))
	reg := New(db)

	db.EXPECT().Services(nil).Return([]*structs.Service{svc("kiwix", "", false)}, nil)

	chain, err := reg.InstallChain("kiwix")

	assert.Nil(t, err)
	assert.Equal(t, 1, len(chain))
	assert.Equal(t, "kiwix", chain[0].Name)
}

func TestInstallChainCycle(t *testing.T) {
	db := database_mock.NewMockDatabase(gomock.NewController(t))
	reg := New(db)

	db.EXPECT().Services(nil).Return([]*structs.Service{
		svc("a", "b", false),
		svc("b", "a", false),
	}, nil)

	_, err := reg.InstallChain("a")

	assert.ErrorIs(t, err, errors.ErrCycle)
}

func TestInstallChainDanglingDependency(t *testing.T) {
	db := database_mock.NewMockDatabase(gomock.NewController(t))
	reg := New(db)

	db.EXPECT().Services(nil).Return([]*structs.Service{svc("a", "ghost", false)}, nil)

	_, err := reg.InstallChain("a")

	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestValidateGraph(t *testing.T) {
	cases := []struct {
		Name   string
		Given  []*structs.Service
		Expect error
	}{
		{
			"Valid",
			[]*structs.Service{svc("a", "", false), svc("b", "a", false)},
			nil,
		},
		{
			"EmptyName",
			[]*structs.Service{svc("", "", false)},
			errors.ErrValidation,
		},
		{
			"NoImage",
			[]*structs.Service{{ServiceSpec: structs.ServiceSpec{Name: "a"}}},
			errors.ErrValidation,
		},
		{
			"Duplicate",
			[]*structs.Service{svc("a", "", false), svc("a", "", false)},
			errors.ErrValidation,
		},
		{
			"SelfReference",
			[]*structs.Service{svc("a", "a", false)},
			errors.ErrValidation,
		},
		{
			"UnknownDependency",
			[]*structs.Service{svc("a", "ghost", false)},
			errors.ErrValidation,
		},
		{
			"Cycle",
			[]*structs.Service{svc("a", "b", false), svc("b", "c", false), svc("c", "a", false)},
			errors.ErrCycle,
		},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			err := ValidateGraph(c.Given)
			if c.Expect == nil {
				assert.Nil(t, err)
			} else {
				assert.ErrorIs(t, err, c.Expect)
			}
		})
	}
}
