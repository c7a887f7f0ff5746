package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leeovery/wtasks/internal/task"
)

func TestRunTasks(t *testing.T) {
	t.Run("it adds a task and creates the file", func(t *testing.T) {
		dir := t.TempDir()

		stdout, stderr, code := runApp(t, dir, "--pretty", "--name", "Buy milk")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0; stderr = %q", code, stderr)
		}

		want := "Task List:\n[ ] 1: Buy milk\n"
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}

		tasks := readTasks(t, dir)
		if len(tasks) != 1 || tasks[0] != (task.Task{Name: "Buy milk"}) {
			t.Errorf("tasks = %+v, want [{Buy milk false}]", tasks)
		}
	})

	t.Run("it marks the first task done by its listed position", func(t *testing.T) {
		dir := t.TempDir()
		runApp(t, dir, "-n", "Buy milk")
		runApp(t, dir, "-n", "Write report")

		stdout, _, code := runApp(t, dir, "--pretty", "--done", "1")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}

		want := "Task List:\n[x] 1: Buy milk\n[ ] 2: Write report\n"
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}
	})

	t.Run("it removes by listed position and shifts later tasks down", func(t *testing.T) {
		dir := t.TempDir()
		seedTasks(t, dir, task.Task{Name: "Buy milk", Done: true}, task.Task{Name: "Write report"})

		stdout, _, code := runApp(t, dir, "--pretty", "-r", "1")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}

		want := "Task List:\n[ ] 1: Write report\n"
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}
		tasks := readTasks(t, dir)
		if len(tasks) != 1 || tasks[0].Name != "Write report" {
			t.Errorf("tasks = %+v, want only Write report", tasks)
		}
	})

	t.Run("it warns and exits 0 for an out-of-range position", func(t *testing.T) {
		dir := t.TempDir()
		path := writeTaskFile(t, dir, "[\n  {\n    \"name\": \"Buy milk\",\n    \"done\": false\n  }\n]\n")
		before, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		for _, args := range [][]string{{"--done", "5"}, {"--remove", "5"}, {"--done", "0"}} {
			stdout, stderr, code := runApp(t, dir, append([]string{"--pretty"}, args...)...)
			if code != 0 {
				t.Errorf("%v: exit code = %d, want 0", args, code)
			}
			if !strings.Contains(stderr, "No task with index "+args[1]+".") {
				t.Errorf("%v: stderr = %q, want index warning", args, stderr)
			}
			if !strings.Contains(stdout, "[ ] 1: Buy milk") {
				t.Errorf("%v: stdout = %q, want listing", args, stdout)
			}
		}

		after, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(before) != string(after) {
			t.Error("task file changed after a no-op action")
		}
	})

	t.Run("it lists an empty store", func(t *testing.T) {
		stdout, _, code := runApp(t, t.TempDir(), "--pretty", "--list")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		want := "Task List:\nNo tasks found.\n"
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}
	})

	t.Run("it treats a corrupt file as empty without rewriting it", func(t *testing.T) {
		dir := t.TempDir()
		path := writeTaskFile(t, dir, `{not json`)

		stdout, stderr, code := runApp(t, dir, "--pretty")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if stdout != "Task List:\nNo tasks found.\n" {
			t.Errorf("stdout = %q", stdout)
		}
		if stderr != "" {
			t.Errorf("stderr = %q, want empty without --verbose", stderr)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `{not json` {
			t.Errorf("corrupt file was rewritten: %q", data)
		}
	})

	t.Run("it reports the fallback reason with --verbose", func(t *testing.T) {
		dir := t.TempDir()
		writeTaskFile(t, dir, `[{"name": "a", "done": false, "extra": 1}]`)

		_, stderr, code := runApp(t, dir, "--verbose")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if !strings.Contains(stderr, "invalid") {
			t.Errorf("stderr = %q, want the invalid outcome logged", stderr)
		}
	})

	t.Run("it warns when saving fails but still prints the list", func(t *testing.T) {
		dir := t.TempDir()
		missing := filepath.Join(dir, "no", "such", "dir", "tasks.json")

		stdout, stderr, code := runApp(t, dir, "--pretty", "--file", missing, "-n", "Buy milk")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if !strings.Contains(stderr, "changes were not saved") {
			t.Errorf("stderr = %q, want save warning", stderr)
		}
		if !strings.Contains(stdout, "[ ] 1: Buy milk") {
			t.Errorf("stdout = %q, want the in-memory listing", stdout)
		}
	})

	t.Run("it accepts an empty task name", func(t *testing.T) {
		dir := t.TempDir()
		_, _, code := runApp(t, dir, "--name", "")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		tasks := readTasks(t, dir)
		if len(tasks) != 1 || tasks[0].Name != "" {
			t.Errorf("tasks = %+v, want one unnamed task", tasks)
		}
	})

	t.Run("it honours --file relative to the working directory", func(t *testing.T) {
		dir := t.TempDir()
		_, _, code := runApp(t, dir, "--file", "work.json", "-n", "Ship it")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if _, err := os.Stat(filepath.Join(dir, "work.json")); err != nil {
			t.Errorf("work.json not written: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "tasks.json")); !os.IsNotExist(err) {
			t.Errorf("tasks.json should not exist, stat err = %v", err)
		}
	})
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"two actions", []string{"--name", "x", "--list"}},
		{"done with remove", []string{"--done", "1", "--remove", "1"}},
		{"non-numeric position", []string{"--done", "first"}},
		{"positional argument", []string{"Buy milk"}},
		{"unknown flag", []string{"--colour"}},
		{"two format flags", []string{"--json", "--toon"}},
	}

	for _, tt := range tests {
		t.Run("it rejects "+tt.name, func(t *testing.T) {
			dir := t.TempDir()

			stdout, stderr, code := runApp(t, dir, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.HasPrefix(stderr, "Error: ") {
				t.Errorf("stderr = %q, want it to start with 'Error: '", stderr)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
			if _, err := os.Stat(filepath.Join(dir, "tasks.json")); !os.IsNotExist(err) {
				t.Error("task file should not be created on argument errors")
			}
		})
	}

	t.Run("it rejects an invalid config file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".wtasks.toml"), []byte(`format = "xml"`), 0644); err != nil {
			t.Fatal(err)
		}

		_, stderr, code := runApp(t, dir, "--list")
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.Contains(stderr, "xml") {
			t.Errorf("stderr = %q, want it to name the bad format", stderr)
		}
	})
}

func TestOutputFormats(t *testing.T) {
	t.Run("it defaults to TOON when stdout is not a terminal", func(t *testing.T) {
		dir := t.TempDir()
		seedTasks(t, dir, task.Task{Name: "Buy milk", Done: true}, task.Task{Name: "Write report"})

		stdout, _, _ := runApp(t, dir)
		if !strings.HasPrefix(stdout, "tasks[2]{position,name,done}:") {
			t.Errorf("stdout = %q, want TOON header", stdout)
		}
	})

	t.Run("it writes JSON rows with --json", func(t *testing.T) {
		dir := t.TempDir()
		seedTasks(t, dir, task.Task{Name: "Buy milk", Done: true})

		stdout, _, _ := runApp(t, dir, "--json")

		var rows []map[string]interface{}
		if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
			t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
		}
		if len(rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(rows))
		}
		if rows[0]["position"] != float64(1) || rows[0]["name"] != "Buy milk" || rows[0]["done"] != true {
			t.Errorf("row = %v", rows[0])
		}
	})

	t.Run("it takes the format from .wtasks.toml", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".wtasks.toml"), []byte(`format = "json"`), 0644); err != nil {
			t.Fatal(err)
		}

		stdout, _, _ := runApp(t, dir)
		if stdout != "[]\n" {
			t.Errorf("stdout = %q, want []", stdout)
		}
	})

	t.Run("it lets a flag beat the configured format", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".wtasks.toml"), []byte(`format = "json"`), 0644); err != nil {
			t.Fatal(err)
		}

		stdout, _, _ := runApp(t, dir, "--pretty")
		if !strings.HasPrefix(stdout, "Task List:") {
			t.Errorf("stdout = %q, want pretty output", stdout)
		}
	})

	t.Run("it prints only names with --quiet", func(t *testing.T) {
		dir := t.TempDir()
		seedTasks(t, dir, task.Task{Name: "Buy milk"}, task.Task{Name: "Write report", Done: true})

		stdout, _, _ := runApp(t, dir, "--pretty", "--quiet")
		if stdout != "Buy milk\nWrite report\n" {
			t.Errorf("stdout = %q", stdout)
		}
	})
}

func TestVersion(t *testing.T) {
	t.Run("it prints the version", func(t *testing.T) {
		stdout, _, code := runApp(t, t.TempDir(), "version")
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if stdout != "wtasks version "+Version+"\n" {
			t.Errorf("stdout = %q", stdout)
		}
	})
}
