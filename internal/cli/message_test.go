package cli

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formatconform/internal/conformerr"
)

func TestMessage_RawTemplate(t *testing.T) {
	out, _, err := executeCommand(t, "message", "err.format.invalidEmail")
	require.NoError(t, err)
	assert.Equal(t, "string \"%value%\" is not a valid email address\n", out)
}

func TestMessage_Params(t *testing.T) {
	out, _, err := executeCommand(t, "message", "err.format.invalidEmail",
		"--params", "value", "--data", `{"value": "john"}`)
	require.NoError(t, err)
	assert.Equal(t, "string \"john\" is not a valid email address\n", out)
}

func TestMessage_ArrayParam(t *testing.T) {
	out, _, err := executeCommand(t, "message", "err.format.invalidDate",
		"--params", "value,expected",
		"--data", `{"value": "2012-13-01", "expected": ["yyyy-MM-dd"]}`)
	require.NoError(t, err)
	assert.Equal(t,
		"string \"2012-13-01\" is invalid against requested date format(s) [yyyy-MM-dd]\n", out)
}

func TestMessage_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "message", "err.format.invalidUUID",
		"--params", "value", "--data", `{"value": "nope"}`, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   MessageResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "err.format.invalidUUID", resp.Data.Key)
	assert.Equal(t, `input "nope" is not a valid UUID`, resp.Data.Message)
}

func TestMessage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		class conformerr.Class
		msg   string
	}{
		{
			name:  "unknown key",
			args:  []string{"message", "err.format.nope"},
			class: conformerr.UnknownTemplateKey,
		},
		{
			name:  "missing parameter",
			args:  []string{"message", "err.format.invalidEmail", "--params", "value"},
			class: conformerr.MissingParameter,
		},
		{
			name: "data not an object",
			args: []string{"message", "err.format.invalidEmail", "--data", `["value"]`},
			msg:  "must be a JSON object",
		},
		{
			name: "data not json",
			args: []string{"message", "err.format.invalidEmail", "--data", `{`},
			msg:  "invalid --data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			if tt.class != "" {
				assert.True(t, conformerr.Is(err, tt.class), "got %v", err)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}
