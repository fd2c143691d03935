package templates

import (
	"strings"
	"testing"
)

func TestConfigYAMLTemplate(t *testing.T) {
	content := string(ConfigYAML)
	if content == "" {
		t.Fatal("Embedded config template is empty")
	}

	for _, key := range []string{"tesuto:", "base_url:", "harness:", "image_name:", "container_name:", "notification:"} {
		if !strings.Contains(content, key) {
			t.Errorf("Config template missing key %q", key)
		}
	}

	// The token must never ship pre-filled in a scaffolded config
	if !strings.Contains(content, `api_token: ""`) {
		t.Error("Config template must ship with an empty api_token")
	}
}

func TestEnvFileTemplate(t *testing.T) {
	content := string(EnvFile)
	if content == "" {
		t.Fatal("Embedded env template is empty")
	}
	if !strings.Contains(content, "TESUTO_API_TOKEN") {
		t.Error("Env template missing TESUTO_API_TOKEN entry")
	}
}
