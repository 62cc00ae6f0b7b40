package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Equal(t, "lib", decoded["sourceId"])
	require.Equal(t, "main", decoded["defaultBranch"])
	require.Equal(t, false, decoded["dryRun"])

	refs, ok := decoded["refs"].([]any)
	require.True(t, ok)
	require.Len(t, refs, 4)

	first, ok := refs[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "branch", first["kind"])
	require.Equal(t, "main", first["source"])
	require.Equal(t, "lib-main", first["destination"])
	require.Equal(t, "created", first["outcome"])

	last, ok := refs[3].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "tag", last["kind"])
	require.Equal(t, "failed", last["outcome"])
	require.NotEmpty(t, last["reason"])
}

func TestWriteJSON_EmptyRefsIsArrayNotNull(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport()
	report.Results = nil
	require.NoError(t, WriteJSON(&buf, report))
	require.Contains(t, buf.String(), `"refs": []`)
}
