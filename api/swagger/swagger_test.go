package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocIsRegisteredAndValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	paths := parsed["paths"].(map[string]interface{})
	for _, route := range []string{"/lecture-reports", "/lecture-reports/{id}", "/reports/{id}/feedback", "/ratings", "/monitoring/attendance"} {
		assert.Contains(t, paths, route)
	}
}
