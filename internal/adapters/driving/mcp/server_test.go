package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresResearch(t *testing.T) {
	server, err := NewServer(&Ports{Namespaces: &mockNamespaceService{}})
	assert.Nil(t, server)
	assert.ErrorIs(t, err, ErrMissingResearchService)
}

func TestNewServer(t *testing.T) {
	server, err := NewServer(&Ports{Research: &mockResearchService{}})
	require.NoError(t, err)
	assert.NotNil(t, server.mcp)
}

func TestNewServer_RegistersToolsAndResources(t *testing.T) {
	server, err := NewServer(&Ports{Research: &mockResearchService{}, Namespaces: &mockNamespaceService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverSide, clientSide := mcp.NewInMemoryTransports()
	ss, err := server.mcp.Connect(ctx, serverSide, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientSide, nil)
	require.NoError(t, err)
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"research", "ask"}, names)

	resources, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 1)
	assert.Equal(t, "scout://namespaces", resources.Resources[0].URI)

	templates, err := cs.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	require.Len(t, templates.ResourceTemplates, 1)
	assert.Equal(t, "scout://namespaces/{namespace}/runs", templates.ResourceTemplates[0].URITemplate)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   Ports
		wantErr error
	}{
		{"empty", Ports{}, ErrMissingResearchService},
		{"namespaces only", Ports{Namespaces: &mockNamespaceService{}}, ErrMissingResearchService},
		{"research only", Ports{Research: &mockResearchService{}}, nil},
		{"both", Ports{Research: &mockResearchService{}, Namespaces: &mockNamespaceService{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunHTTP_StopsWithContext(t *testing.T) {
	server, err := NewServer(&Ports{Research: &mockResearchService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}
