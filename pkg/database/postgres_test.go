package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

func TestToSqlIn(t *testing.T) {
	qstr, args := toSqlIn(3, "name", []string{"kiwix", "ollama"})

	assert.Equal(t, "name IN ($3, $4)", qstr)
	assert.Equal(t, []interface{}{"kiwix", "ollama"}, args)
}

func TestToSqlInEmpty(t *testing.T) {
	qstr, args := toSqlIn(1, "name", nil)

	assert.Equal(t, "", qstr)
	assert.Equal(t, []interface{}{}, args)
}

func TestStatusToStrings(t *testing.T) {
	result := statusToStrings([]structs.InstallStatus{structs.IDLE, structs.COMPLETED, structs.ERRORED})

	assert.Equal(t, []string{"IDLE", "COMPLETED", "ERRORED"}, result)
}

func TestEncodeDecodeJSONColumns(t *testing.T) {
	in := &structs.Service{
		ServiceSpec: structs.ServiceSpec{
			Name:    "kiwix",
			Image:   "ghcr.io/kiwix/kiwix-serve:latest",
			Command: []string{"kiwix-serve", "--port", "8080"},
			Env:     map[string]string{"DATA_DIR": "/data"},
			Ports:   map[int]int{8080: 8080},
			Metadata: map[string]string{
				"category": "library",
			},
		},
	}

	command, env, ports, metadata, err := encodeJSONColumns(in)
	assert.Nil(t, err)

	out := &structs.Service{}
	err = decodeJSONColumns(out, command, env, ports, metadata)

	assert.Nil(t, err)
	assert.Equal(t, in.Command, out.Command)
	assert.Equal(t, in.Env, out.Env)
	assert.Equal(t, in.Ports, out.Ports)
	assert.Equal(t, in.Metadata, out.Metadata)
}
