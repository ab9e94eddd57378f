package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

func receiveOne(t *testing.T, sub *Subscription) []byte {
	select {
	case data := <-sub.C:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryPublishSubscribe(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	sub, err := m.Subscribe(structs.TopicInstall)
	assert.Nil(t, err)

	err = m.Publish(structs.TopicInstall, &structs.InstallEvent{
		ServiceName: "kiwix",
		Type:        structs.EventPulling,
		Timestamp:   100,
	})
	assert.Nil(t, err)

	evt := &structs.InstallEvent{}
	assert.Nil(t, json.Unmarshal(receiveOne(t, sub), evt))
	assert.Equal(t, "kiwix", evt.ServiceName)
	assert.Equal(t, structs.EventPulling, evt.Type)
}

func TestMemoryTopicsAreIndependent(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	install, err := m.Subscribe(structs.TopicInstall)
	assert.Nil(t, err)
	downloads, err := m.Subscribe(structs.TopicDownloads)
	assert.Nil(t, err)

	assert.Nil(t, m.Publish(structs.TopicDownloads, &structs.DownloadEvent{JobID: "j1", Progress: 40}))

	evt := &structs.DownloadEvent{}
	assert.Nil(t, json.Unmarshal(receiveOne(t, downloads), evt))
	assert.Equal(t, "j1", evt.JobID)

	select {
	case <-install.C:
		t.Fatal("install subscriber should not see download events")
	default:
	}
}

func TestMemoryUnsubscribedObserverDropsEvents(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	sub, err := m.Subscribe(structs.TopicInstall)
	assert.Nil(t, err)
	sub.Close()

	// no subscriber; publish is a no-op, not an error
	assert.Nil(t, m.Publish(structs.TopicInstall, &structs.InstallEvent{ServiceName: "kiwix"}))

	_, open := <-sub.C
	assert.False(t, open)
}

func TestMemorySlowObserverDoesNotBlockPublisher(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	_, err := m.Subscribe(structs.TopicDownloads)
	assert.Nil(t, err)

	// fill well past the subscriber buffer; publisher must never block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subBuffer*3; i++ {
			m.Publish(structs.TopicDownloads, &structs.DownloadEvent{JobID: "j", Progress: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow observer")
	}
}
