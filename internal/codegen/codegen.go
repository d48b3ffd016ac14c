// Package codegen renders the templated frontend/backend code pair for a
// build session. Generation is pure string templating over a fixed set of
// named parameters; nothing is executed or compiled.
package codegen

import (
	"strings"
	"text/template"
	"unicode"

	"github.com/physicistcolloh-png/base43/types"
)

const watermarkComment = "// Built with base43 (free tier)"

type frontendParams struct {
	ComponentName string
	AppName       string
	Description   string
	Integrations  []types.Integration
	Watermark     bool
}

type backendParams struct {
	AppName      string
	Integrations []types.Integration
	Watermark    bool
}

var frontendTmpl = template.Must(template.New("frontend").Parse(`{{if .Watermark}}` + watermarkComment + `
{{end}}import React, { useState, useEffect } from 'react';
import './styles.css';

export default function {{.ComponentName}}() {
  const [state, setState] = useState({});
  const [loading, setLoading] = useState(false);
  const [error, setError] = useState(null);

  useEffect(() => {
    // Component mounted
  }, []);

  const handleSubmit = async (e) => {
    e.preventDefault();
    setLoading(true);
    try {
      console.log('Form submitted:', state);
    } catch (err) {
      setError(err.message);
    } finally {
      setLoading(false);
    }
  };

  return (
    <div className="container">
      <header className="header">
        <h1>{{.AppName}}</h1>
        <p>{{.Description}}</p>
      </header>

      <main className="main-content">
        {error && <div className="error-message">{error}</div>}

        <form onSubmit={handleSubmit}>
          <input
            type="text"
            placeholder="Enter value"
            onChange={(e) => setState({ ...state, value: e.target.value })}
          />
          <button type="submit" disabled={loading}>
            {loading ? 'Loading...' : 'Submit'}
          </button>
        </form>
      </main>

      <footer className="footer">
        {{- if .Integrations}}
        {/* Integrations: {{range $i, $integ := .Integrations}}{{if $i}}, {{end}}{{$integ.Name}}{{end}} */}
        {{- end}}
      </footer>
    </div>
  );
}
`))

var backendTmpl = template.Must(template.New("backend").Parse(`{{if .Watermark}}` + watermarkComment + `
{{end}}const express = require('express');
const cors = require('cors');
const dotenv = require('dotenv');

dotenv.config();

const app = express();
const PORT = process.env.PORT || 3001;

// Middleware
app.use(cors());
app.use(express.json());

{{range .Integrations}}{{if .RequiresAPIKey}}// const {{.ID}} = require('{{.ID}}');
{{end}}{{end}}
// Health check endpoint
app.get('/health', (req, res) => {
  res.json({
    status: 'ok',
    app: '{{.AppName}}',
    timestamp: new Date().toISOString()
  });
});

// Main API endpoint
app.post('/api/submit', (req, res) => {
  try {
    const { data } = req.body;

    if (!data) {
      return res.status(400).json({ error: 'Missing data' });
    }

    const result = {
      success: true,
      message: 'Data processed successfully',
      data: data,
      timestamp: new Date().toISOString()
    };

    res.json(result);
  } catch (error) {
    console.error('Error:', error);
    res.status(500).json({ error: 'Internal server error' });
  }
});

// Error handling middleware
app.use((err, req, res, next) => {
  console.error(err.stack);
  res.status(500).json({ error: 'Something went wrong' });
});

// 404 handler
app.use((req, res) => {
  res.status(404).json({ error: 'Not found' });
});

app.listen(PORT, () => {
  console.log('{{.AppName}} API running on port ' + PORT);
});

module.exports = app;
`))

const dockerfileTemplate = `FROM node:18-alpine

WORKDIR /app

COPY package*.json ./
RUN npm install --production

COPY . .

EXPOSE 3001

CMD ["npm", "start"]
`

const envFileTemplate = `NODE_ENV=production
PORT=3001
DATABASE_URL=
API_KEY=
CORS_ORIGIN=*
`

// Frontend renders the React component for a session.
func Frontend(appName, description string, integrations []types.Integration, watermark bool) (string, error) {
	var sb strings.Builder
	err := frontendTmpl.Execute(&sb, frontendParams{
		ComponentName: PascalCase(appName),
		AppName:       appName,
		Description:   description,
		Integrations:  integrations,
		Watermark:     watermark,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Backend renders the Express server for a session.
func Backend(appName string, integrations []types.Integration, watermark bool) (string, error) {
	var sb strings.Builder
	err := backendTmpl.Execute(&sb, backendParams{
		AppName:      appName,
		Integrations: integrations,
		Watermark:    watermark,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Dockerfile returns the container build file included in app exports.
func Dockerfile() string {
	return dockerfileTemplate
}

// EnvFile returns the environment template included in app exports.
func EnvFile() string {
	return envFileTemplate
}

// PascalCase converts an app name to a legal component identifier:
// "my todo-app" becomes "MyTodoApp".
func PascalCase(s string) string {
	var sb strings.Builder
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	}) {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	return sb.String()
}
