package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	series := dynamo.Series{{1.0, 0.0, 2.0}, {0.9, -0.1, 2.5}}
	meta, err := st.Save(RunMetadata{
		System:       "lorenz",
		Params:       dynamo.Params{"rho": 28},
		InitialState: []float64{1, 1, 1},
		Metrics:      map[string]float64{"stability": 1},
	}, series)
	require.NoError(t, err)

	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, 2, meta.Steps)
	assert.Equal(t, 3, meta.Dim)
	assert.Equal(t, DefaultPrecision, meta.Precision)

	loaded, err := st.Load(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "lorenz", loaded.System)
	assert.Equal(t, 28.0, loaded.Params["rho"])
	assert.Equal(t, 1.0, loaded.Metrics["stability"])

	got, err := st.LoadSeries(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, series, got)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	st.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(RunMetadata{System: "henon"}, dynamo.Series{{0.1, 0}})
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{System: "ikeda"}, dynamo.Series{{0.1, 0}})
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "newest run first")
	assert.Equal(t, first.ID, runs[1].ID)

	latest, err := st.Latest()
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestStoreSameInstant(t *testing.T) {
	st := New(t.TempDir())
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return frozen }

	a, err := st.Save(RunMetadata{System: "logistic"}, dynamo.Series{{0.5}})
	require.NoError(t, err)
	b, err := st.Save(RunMetadata{System: "logistic"}, dynamo.Series{{0.5}})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStoreLatestEmpty(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Latest()
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreLoadRejectsPaths(t *testing.T) {
	root := t.TempDir()
	st := New(filepath.Join(root, "runs"))
	require.NoError(t, st.Init())

	// metadata one level up and in the base dir itself must stay unreachable
	stray := []byte(`{"id":"stray","system":"lorenz"}`)
	require.NoError(t, os.WriteFile(filepath.Join(root, metadataFile), stray, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), metadataFile), stray, 0o644))

	for _, id := range []string{"", ".", "..", "../etc", "a/b", "/abs"} {
		_, err := st.Load(id)
		assert.ErrorIs(t, err, ErrInvalidRunID, "id %q", id)
		_, err = st.LoadSeries(id)
		assert.ErrorIs(t, err, ErrInvalidRunID, "series for id %q", id)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	meta, err := st.Save(RunMetadata{System: "logistic"}, dynamo.Series{{0.975}})
	require.NoError(t, err)

	runDir := filepath.Join(tmpDir, meta.ID)
	assert.FileExists(t, filepath.Join(runDir, "metadata.json"))
	assert.FileExists(t, filepath.Join(runDir, "series.csv"))

	data, err := os.ReadFile(filepath.Join(runDir, "series.csv"))
	require.NoError(t, err)
	assert.Equal(t, "0.975000\n", string(data))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, dynamo.Series{{1, 1.26, 0.983333333}, {-2.5, 0, 3}}, 4))
	assert.Equal(t, "1.0000,1.2600,0.9833\n-2.5000,0.0000,3.0000\n", buf.String())
}

func TestReadCSV(t *testing.T) {
	series, err := ReadCSV(strings.NewReader("1.0, 2.0\n\n3.0,4.5\n"))
	require.NoError(t, err)
	assert.Equal(t, dynamo.Series{{1, 2}, {3, 4.5}}, series)

	_, err = ReadCSV(strings.NewReader("1,2\n3\n"))
	assert.ErrorIs(t, err, dynamo.ErrRaggedSeries)

	_, err = ReadCSV(strings.NewReader("1,abc\n"))
	assert.Error(t, err)

	series, err = ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "series.csv")
	series := dynamo.Series{{0.1, 0.2}, {0.3, 0.4}}

	require.NoError(t, WriteFile(path, series, DefaultPrecision))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, series, got)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{ID: "henon_1", System: "henon", Params: dynamo.Params{"a": 1.4, "b": 0.3}}
	require.NoError(t, ExportJSON(&buf, meta, dynamo.Series{{0.986, 0.03}}))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "henon", out.System)
	assert.Equal(t, 1, out.Steps)
	assert.Equal(t, [][]float64{{0.986, 0.03}}, out.States)
}
