package main

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/concreteguy/homepage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCreator struct {
	MockCreateUser func(creds domain.Credentials, admin bool) (domain.UserId, error)
}

func (m *mockCreator) CreateUser(creds domain.Credentials, admin bool) (domain.UserId, error) {
	return m.MockCreateUser(creds, admin)
}

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestRun(t *testing.T) {
	t.Run("prompts for username and creates admin", func(t *testing.T) {
		stubPasswords(t, "s3cret", "s3cret")
		var got domain.Credentials
		creator := &mockCreator{MockCreateUser: func(creds domain.Credentials, admin bool) (domain.UserId, error) {
			got = creds
			assert.True(t, admin)
			return 7, nil
		}}
		var out bytes.Buffer

		err := run(creator, bufio.NewReader(strings.NewReader("root\n")), &out, "", true)

		require.NoError(t, err)
		assert.Equal(t, domain.Credentials{Username: "root", Password: "s3cret"}, got)
		assert.Contains(t, out.String(), `Created user "root" with id 7`)
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		stubPasswords(t, "one", "two")
		creator := &mockCreator{MockCreateUser: func(domain.Credentials, bool) (domain.UserId, error) {
			t.Fatal("CreateUser must not be called")
			return 0, nil
		}}

		err := run(creator, bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, "root", false)
		assert.EqualError(t, err, "passwords do not match")
	})

	t.Run("service error is reported", func(t *testing.T) {
		stubPasswords(t, "pw", "pw")
		creator := &mockCreator{MockCreateUser: func(domain.Credentials, bool) (domain.UserId, error) {
			return -1, errors.New("Username already taken")
		}}

		err := run(creator, bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, "root", false)
		assert.ErrorContains(t, err, "Username already taken")
	})
}
