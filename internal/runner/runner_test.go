// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	onPath  map[string]string // binary -> resolved path
	runFunc func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error

	gotName string
	gotArgs []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if p, ok := m.onPath[file]; ok {
		return p, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.gotName = name
	m.gotArgs = args
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args, stdout, stderr)
	}
	return nil
}

// recorder is a Progress that keeps everything it receives.
type recorder struct {
	percents []int
	lines    []string
}

func (r *recorder) SetPercentage(pct int) { r.percents = append(r.percents, pct) }
func (r *recorder) Info(line string)      { r.lines = append(r.lines, line) }

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		toolsDir string
		onPath   map[string]string
		want     string
	}{
		{
			name:     "configured directory",
			toolsDir: "/opt/pktools/bin",
			want:     "/opt/pktools/bin/pksvm",
		},
		{
			name:   "found on PATH",
			onPath: map[string]string{"pksvm": "/usr/local/bin/pksvm"},
			want:   "/usr/local/bin/pksvm",
		},
		{
			name: "not found falls back to bare name",
			want: "pksvm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRunner(tt.toolsDir, &mockExecutor{onPath: tt.onPath}, nil)
			assert.Equal(t, tt.want, r.Resolve("pksvm"))
		})
	}
}

func TestRunPassesArguments(t *testing.T) {
	ex := &mockExecutor{}
	r := newRunner("", ex, nil)

	err := r.Run(context.Background(), []string{"/bin/pksvm", "-i", "in file.tif", "-o", "out.tif"}, Discard)
	require.NoError(t, err)
	assert.Equal(t, "/bin/pksvm", ex.gotName)
	assert.Equal(t, []string{"-i", "in file.tif", "-o", "out.tif"}, ex.gotArgs)
}

func TestRunEmptyCommand(t *testing.T) {
	r := newRunner("", &mockExecutor{}, nil)
	err := r.Run(context.Background(), nil, Discard)
	require.ErrorIs(t, err, ErrEmptyCommand)
}

func TestRunFailure(t *testing.T) {
	ex := &mockExecutor{
		runFunc: func(_ context.Context, _ string, _ []string, _, stderr io.Writer) error {
			_, _ = io.WriteString(stderr, "Error: could not open training file\n")
			return errors.New("exit status 1")
		},
	}
	r := newRunner("", ex, nil)
	rec := &recorder{}

	err := r.Run(context.Background(), []string{"/bin/pksvm", "-t", "missing.sqlite"}, rec)
	require.ErrorIs(t, err, ErrCommandExecution)
	assert.Contains(t, err.Error(), "pksvm")
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Equal(t, []string{"Error: could not open training file"}, rec.lines)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ex := &mockExecutor{
		runFunc: func(ctx context.Context, _ string, _ []string, _, _ io.Writer) error {
			cancel()
			<-ctx.Done()
			return errors.New("signal: killed")
		},
	}
	r := newRunner("", ex, nil)

	err := r.Run(ctx, []string{"/bin/pkextractogr"}, Discard)
	require.ErrorIs(t, err, ErrCommandExecution)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunStreamsProgress(t *testing.T) {
	ex := &mockExecutor{
		runFunc: func(_ context.Context, _ string, _ []string, stdout, _ io.Writer) error {
			chunks := []string{
				"processing input image in.tif\n",
				"0...10...2",
				"0...30...40...50...60...70...80...90...100 - done.\n",
				"written 1200 points\n",
				"no trailing newline",
			}
			for _, c := range chunks {
				if _, err := io.WriteString(stdout, c); err != nil {
					return err
				}
			}
			return nil
		},
	}
	r := newRunner("", ex, nil)
	rec := &recorder{}

	require.NoError(t, r.Run(context.Background(), []string{"/bin/pkextractogr"}, rec))

	assert.Equal(t, []int{10, 100}, rec.percents)
	assert.Equal(t, []string{
		"processing input image in.tif",
		"written 1200 points",
		"no trailing newline",
	}, rec.lines)
}

func TestProgressIsMonotonic(t *testing.T) {
	rec := &recorder{}
	sink := newProgressSink(rec)
	w := sink.writer()

	_, _ = w.Write([]byte("0...10...20...\n"))
	_, _ = w.Write([]byte("0...10...\n"))
	_, _ = w.Write([]byte("0...10...20...30...\n"))

	assert.Equal(t, []int{20, 30}, rec.percents)
	assert.Empty(t, rec.lines)
}

func TestNumericRowsAreForwarded(t *testing.T) {
	rec := &recorder{}
	w := newProgressSink(rec).writer()

	_, _ = w.Write([]byte("predict_label: 2\n0.1 0.7 0.2\n12 34 5\n0...50...100 - done.\n"))
	w.Flush()

	assert.Equal(t, []string{"predict_label: 2", "0.1 0.7 0.2", "12 34 5"}, rec.lines)
	assert.Equal(t, []int{100}, rec.percents)
}

// requireTools skips the test unless the named programs are on PATH.
func requireTools(t *testing.T, names ...string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not on PATH", name)
		}
	}
}

func TestRunProcessExitStatus(t *testing.T) {
	requireTools(t, "sh", "sleep")
	r := New("", nil)
	rec := &recorder{}

	script := `printf '0...50...'; sleep 0.1; printf '100 - done.\n'; echo '0.1 0.7 0.2'; echo 'bad training file' >&2; exit 3`
	err := r.Run(context.Background(), []string{r.Resolve("sh"), "-c", script}, rec)

	require.ErrorIs(t, err, ErrCommandExecution)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())

	require.NotEmpty(t, rec.percents)
	assert.Equal(t, 100, rec.percents[len(rec.percents)-1])
	assert.IsNonDecreasing(t, rec.percents)
	assert.ElementsMatch(t, []string{"0.1 0.7 0.2", "bad training file"}, rec.lines)
}

func TestRunProcessSucceeds(t *testing.T) {
	requireTools(t, "sh")
	r := New("", nil)
	rec := &recorder{}

	err := r.Run(context.Background(), []string{r.Resolve("sh"), "-c", "echo 'written 3 points'"}, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"written 3 points"}, rec.lines)
}

func TestRunProcessCancelled(t *testing.T) {
	requireTools(t, "sleep")
	r := New("", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := r.Run(ctx, []string{r.Resolve("sleep"), "30"}, Discard)

	require.ErrorIs(t, err, ErrCommandExecution)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunMissingExecutable(t *testing.T) {
	r := New("", nil)

	err := r.Run(context.Background(), []string{r.Resolve("pkdoesnotexist")}, Discard)
	require.ErrorIs(t, err, ErrCommandExecution)
	assert.Contains(t, err.Error(), "pkdoesnotexist")
}

func TestCommandLine(t *testing.T) {
	got := CommandLine([]string{"/opt/pk tools/pksvm", "-i", "in.tif", "-label", "", "-f", "ESRI Shapefile"})
	assert.Equal(t, `"/opt/pk tools/pksvm" -i in.tif -label "" -f "ESRI Shapefile"`, got)
}
