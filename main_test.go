package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonsonwune/admitere_admin/internal/fakebackend"
)

type cli struct {
	t         *testing.T
	apiURL    string
	sessionDB string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	srv := httptest.NewServer(fakebackend.New(fakebackend.WithLogger(quiet), fakebackend.WithDemoData()))
	t.Cleanup(srv.Close)
	return &cli{t: t, apiURL: srv.URL, sessionDB: filepath.Join(t.TempDir(), "session.db")}
}

// run executes one command line, as a fresh process would, sharing only the session store.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	a := &app{}
	cmd := newRootCmd(a)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api-url", c.apiURL, "--session-db", c.sessionDB, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	a.close()
	return stdout.String(), err
}

func (c *cli) login() {
	c.t.Helper()
	_, err := c.run("", "login", "--email", fakebackend.DefaultAdminEmail, "--parola", fakebackend.DefaultAdminParola)
	require.NoError(c.t, err)
}

func TestCLI_SessionLifecycle(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "whoami")
	assert.Equal(t, exitSession, exitCode(err))

	_, err = c.run("", "login", "--email", fakebackend.DefaultAdminEmail, "--parola", "gresit")
	require.Error(t, err)
	assert.Equal(t, exitSession, exitCode(err))
	assert.Equal(t, "Credentiale invalide", err.Error())

	out, err := c.run(fakebackend.DefaultAdminParola+"\n", "login", "--email", fakebackend.DefaultAdminEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Conectat ca admin@admitere.ro")

	out, err = c.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@admitere.ro")

	out, err = c.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Deconectat.")

	_, err = c.run("", "whoami")
	assert.Equal(t, exitSession, exitCode(err))
}

func TestCLI_EntityCommands(t *testing.T) {
	c := newCLI(t)
	c.login()

	out, err := c.run("", "facultati", "create", "--nume", "Drept")
	require.NoError(t, err)
	assert.Contains(t, out, "Salvat.")
	assert.Contains(t, out, "Drept")

	_, err = c.run("", "facultati", "create")
	require.Error(t, err)
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Equal(t, "Introdu un nume pentru facultate.", err.Error())

	out, err = c.run("", "facultati", "update", "1", "--nume", "Facultatea de Informatica si Calculatoare")
	require.NoError(t, err)
	assert.Contains(t, out, "Facultatea de Informatica si Calculatoare")

	_, err = c.run("", "facultati", "update", "999", "--nume", "X")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = c.run("", "facultati", "delete", "abc")
	assert.Equal(t, exitUsage, exitCode(err))

	out, err = c.run("", "candidati", "list", "--nume", "pop")
	require.NoError(t, err)
	assert.Contains(t, out, "ana.popescu@example.ro")
	assert.NotContains(t, out, "radu.stan@example.ro")

	_, err = c.run("", "programe", "list", "--buget-min", "x")
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Equal(t, "Campul buget minim trebuie sa fie numeric.", err.Error())

	out, err = c.run("", "optiuni", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ana.popescu@example.ro")
	assert.Contains(t, out, "Informatica")

	out, err = c.run("", "admini", "create", "--email", "nou@admitere.ro", "--parola", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "nou@admitere.ro")

	_, err = c.run("", "admini", "create", "--email", "altul@admitere.ro")
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Equal(t, "Parola este obligatorie la creare.", err.Error())
}

func TestCLI_ProcessingAndReports(t *testing.T) {
	c := newCLI(t)
	c.login()

	out, err := c.run("", "procesare")
	require.NoError(t, err)
	assert.Contains(t, out, "Procesare finalizata: 4 dosare, 3 admisi, 1 respinsi.")

	out, err = c.run("", "rezultate")
	require.NoError(t, err)
	assert.Contains(t, out, "Facultatea de Informatica")
	assert.Contains(t, out, "RESPINS")

	out, err = c.run("", "rapoarte")
	require.NoError(t, err)
	assert.Contains(t, out, "Rezultate pe facultati")

	dir := t.TempDir()
	for _, format := range []string{"csv", "pdf", "xlsx"} {
		path := filepath.Join(dir, "raport."+format)
		out, err = c.run("", "rapoarte", "--export", format, "--out", path)
		require.NoError(t, err, format)
		assert.Contains(t, out, path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	csv, err := os.ReadFile(filepath.Join(dir, "raport.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csv), "program_id,program,facultate,inscrisi"))

	_, err = c.run("", "rapoarte", "--export", "docx")
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = c.run("", "rapoarte", "--start", "ieri")
	assert.Equal(t, exitValidation, exitCode(err))
}

func TestCLI_ImportCandidati(t *testing.T) {
	c := newCLI(t)
	c.login()
	dir := t.TempDir()
	source := filepath.Join(dir, "candidati.csv")
	require.NoError(t, os.WriteFile(source, []byte("nume,prenume,email\nPop,Ion,ion@example.ro\nVasile,,vasile@example.ro\n"), 0o644))

	out, err := c.run("", "import", "candidati", source, "--failed-dir", filepath.Join(dir, "failed"))
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Contains(t, out, "Procesate 2 randuri: 1 reusite, 1 esuate.")
	assert.Contains(t, out, filepath.Join(dir, "failed"))

	out, err = c.run("", "candidati", "list", "--email", "ion@example.ro")
	require.NoError(t, err)
	assert.Contains(t, out, "Pop")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, 1, exitCode(assert.AnError))
	assert.Equal(t, exitRemote, exitCode(withCode(exitRemote, assert.AnError)))
	assert.Nil(t, withCode(exitRemote, nil))
}
