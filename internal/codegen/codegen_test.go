package codegen

import (
	"strings"
	"testing"

	"github.com/physicistcolloh-png/base43/types"
	"github.com/stretchr/testify/require"
)

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"my todo-app":  "MyTodoApp",
		"Todo App":     "TodoApp",
		"shop_backend": "ShopBackend",
		"APP":          "App",
		"solo":         "Solo",
	}
	for in, want := range cases {
		require.Equal(t, want, PascalCase(in), in)
	}
}

func TestFrontendWatermark(t *testing.T) {
	marked, err := Frontend("Todo App", "a todo app", nil, true)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(marked, watermarkComment))
	require.Contains(t, marked, "export default function TodoApp()")
	require.Contains(t, marked, "<h1>Todo App</h1>")
	require.Contains(t, marked, "<p>a todo app</p>")

	clean, err := Frontend("Todo App", "a todo app", nil, false)
	require.NoError(t, err)
	require.NotContains(t, clean, watermarkComment)
}

func TestFrontendListsIntegrations(t *testing.T) {
	integrations := []types.Integration{
		{ID: "stripe", Name: "Stripe Payment Gateway"},
		{ID: "openai", Name: "OpenAI API"},
	}
	out, err := Frontend("Shop", "", integrations, false)
	require.NoError(t, err)
	require.Contains(t, out, "Integrations: Stripe Payment Gateway, OpenAI API")
}

func TestBackendRendersIntegrationRequires(t *testing.T) {
	integrations := []types.Integration{
		{ID: "stripe", Name: "Stripe Payment Gateway", RequiresAPIKey: true},
		{ID: "websocket", Name: "WebSocket Real-time", RequiresAPIKey: false},
	}
	out, err := Backend("Shop", integrations, true)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, watermarkComment))
	require.Contains(t, out, "// const stripe = require('stripe');")
	require.NotContains(t, out, "require('websocket')")
	require.Contains(t, out, "app: 'Shop'")
}

func TestExportScaffolding(t *testing.T) {
	require.Contains(t, Dockerfile(), "FROM node:18-alpine")
	require.Contains(t, EnvFile(), "PORT=3001")
}
