package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knob/internal/core/domain"
)

func TestParseEntryType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.EntryType
	}{
		{"BOOL", domain.TypeBool},
		{"bool", domain.TypeBool},
		{"STRING", domain.TypeString},
		{"PATH", domain.TypePath},
		{"FILEPATH", domain.TypeFilePath},
		{"UNINITIALIZED", domain.TypeUninitialized},
		{" INTERNAL ", domain.TypeInternal},
		{"STATIC", domain.TypeStatic},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseEntryType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}

	_, err := domain.ParseEntryType("LIST")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidEntryType)
}

func TestEntryType_TextRoundTrip(t *testing.T) {
	var typ domain.EntryType
	require.NoError(t, typ.UnmarshalText([]byte("filepath")))
	assert.Equal(t, domain.TypeFilePath, typ)

	text, err := typ.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "FILEPATH", string(text))
}

func TestEntry_Visible(t *testing.T) {
	normal := &domain.Entry{Name: "A", Type: domain.TypeString}
	advanced := &domain.Entry{Name: "B", Type: domain.TypeString, Advanced: true}
	internal := &domain.Entry{Name: "C", Type: domain.TypeInternal}

	assert.True(t, normal.Visible(false))
	assert.True(t, normal.Visible(true))
	assert.False(t, advanced.Visible(false))
	assert.True(t, advanced.Visible(true))
	assert.False(t, internal.Visible(true))
}

func TestFixValue(t *testing.T) {
	tests := []struct {
		name    string
		typ     domain.EntryType
		in      string
		want    string
		wantErr bool
	}{
		{"bool on", domain.TypeBool, "on", "ON", false},
		{"bool yes", domain.TypeBool, "Yes", "ON", false},
		{"bool one", domain.TypeBool, "1", "ON", false},
		{"bool false", domain.TypeBool, "false", "OFF", false},
		{"bool empty", domain.TypeBool, "", "OFF", false},
		{"bool notfound", domain.TypeBool, "ZLIB-NOTFOUND", "OFF", false},
		{"bool garbage", domain.TypeBool, "maybe", "", true},
		{"path trailing slash", domain.TypePath, "/usr/local/", "/usr/local", false},
		{"path many slashes", domain.TypePath, "build///", "build", false},
		{"path root", domain.TypePath, "/", "/", false},
		{"filepath backslash", domain.TypeFilePath, `C:\tools\cc.exe\`, `C:\tools\cc.exe`, false},
		{"string verbatim", domain.TypeString, " -O2 ", " -O2 ", false},
		{"uninitialized verbatim", domain.TypeUninitialized, "x/", "x/", false},
		{"multiline rejected", domain.TypeString, "a\nb", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.FixValue(tt.typ, tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidValue)
				assert.True(t, domain.IsCacheError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_DoesNotTouchInput(t *testing.T) {
	in := domain.Entries{
		{Name: "BUILD_SHARED", Type: domain.TypeBool, Value: "yes"},
		{Name: "PREFIX", Type: domain.TypePath, Value: "/opt/"},
	}

	out, err := domain.Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "ON", out[0].Value)
	assert.Equal(t, "/opt", out[1].Value)
	assert.Equal(t, "yes", in[0].Value)
	assert.Equal(t, "/opt/", in[1].Value)

	in = append(in, &domain.Entry{Name: "BAD", Type: domain.TypeBool, Value: "perhaps"})
	out, err = domain.Normalize(in)
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestToggleBool(t *testing.T) {
	assert.Equal(t, "ON", domain.ToggleBool("OFF"))
	assert.Equal(t, "OFF", domain.ToggleBool("ON"))
	assert.Equal(t, "OFF", domain.ToggleBool("true"))
	assert.Equal(t, "ON", domain.ToggleBool(""))
}

func TestEntries_AddRemove(t *testing.T) {
	var es domain.Entries
	es, err := es.Add(&domain.Entry{Name: "A"})
	require.NoError(t, err)
	es, err = es.Add(&domain.Entry{Name: "B"})
	require.NoError(t, err)

	_, err = es.Add(&domain.Entry{Name: "A"})
	require.ErrorIs(t, err, domain.ErrDuplicateEntry)

	for _, name := range []string{"X:Y", "X=Y", `X"Y`, ""} {
		_, err = es.Add(&domain.Entry{Name: name})
		require.ErrorIs(t, err, domain.ErrInvalidEntryName, name)
	}

	removed, err := es.Remove("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, removed.Names())
	assert.Equal(t, []string{"A", "B"}, es.Names(), "Remove must not modify the receiver")

	_, err = es.Remove("missing")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntries_Clone(t *testing.T) {
	es := domain.Entries{{Name: "A", Value: "1"}}
	c := es.Clone()
	c[0].Value = "2"
	assert.Equal(t, "1", es[0].Value)
	assert.True(t, es.Equal(domain.Entries{{Name: "A", Value: "1"}}))
	assert.False(t, es.Equal(c))
}

func TestReconcile(t *testing.T) {
	before := domain.Entries{
		{Name: "A", Type: domain.TypeString, Value: "a"},
		{Name: "B", Type: domain.TypeBool, Value: "OFF", New: true},
		{Name: "GONE", Type: domain.TypeString},
	}
	after := domain.Entries{
		{Name: "CMAKE_CXX_FLAGS", Type: domain.TypeString, Value: "-O2"},
		{Name: "B", Type: domain.TypeBool, Value: "ON"},
		{Name: "A", Type: domain.TypeString, Value: "a2"},
	}

	merged, added, removed := domain.Reconcile(before, after)

	assert.Equal(t, []string{"A", "B", "CMAKE_CXX_FLAGS"}, merged.Names())
	assert.Equal(t, []string{"CMAKE_CXX_FLAGS"}, added)
	assert.Equal(t, []string{"GONE"}, removed)
	assert.Equal(t, "a2", merged[0].Value)
	assert.True(t, merged[1].New, "known entries keep their New flag")
	assert.True(t, merged[2].New)
	assert.False(t, after[0].New, "reload list must not be modified")
}

func TestReport_ElapsedMinutes(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	r := domain.Report{Start: start, End: start.Add(95 * time.Second)}
	assert.InDelta(t, 1.5, r.ElapsedMinutes(), 1e-9)

	r.End = start.Add(5 * time.Second)
	assert.InDelta(t, 0.0, r.ElapsedMinutes(), 1e-9)
}

func TestStepFailure(t *testing.T) {
	f := &domain.StepFailure{Kind: domain.StepConfigure, Status: 3}
	assert.Equal(t, "configure exited with status 3", f.Error())
	assert.Equal(t, 3, f.ExitCode())
}

func TestWrapKind(t *testing.T) {
	cause := errors.New("permission denied")
	err := domain.WrapKind(domain.ErrCacheWrite, cause)

	require.ErrorIs(t, err, domain.ErrCacheWrite)
	require.ErrorIs(t, err, cause)
	assert.True(t, domain.IsCacheError(err))
	assert.Equal(t, "failed to write cache: permission denied", err.Error())
	assert.NoError(t, domain.WrapKind(domain.ErrCacheWrite, nil))
}
