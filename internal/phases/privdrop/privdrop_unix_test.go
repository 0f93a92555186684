//go:build !windows

package privdrop

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"testing"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/bootstrap/finitestate"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("running as root, a real drop would change the test process identity")
	}
}

// registerEnvRestore snapshots the identity variables Run mutates.
func registerEnvRestore(t *testing.T) {
	t.Helper()
	for _, key := range []string{"USER", "LOGNAME", "HOME"} {
		t.Setenv(key, os.Getenv(key))
	}
}

func TestResolve(t *testing.T) {
	current, err := user.Current()
	require.NoError(t, err)

	t.Run("current user by name", func(t *testing.T) {
		if current.Username == "root" {
			t.Skip("root is refused as a drop target")
		}
		id, err := resolve(current.Username)
		require.NoError(t, err)
		assert.Equal(t, atoiID(current.Uid), id.uid)
		assert.Equal(t, atoiID(current.Gid), id.gid)
		assert.Equal(t, current.Username, id.username)
	})

	t.Run("numeric uid without passwd entry", func(t *testing.T) {
		id, err := resolve("54321")
		require.NoError(t, err)
		assert.Equal(t, 54321, id.uid)
		assert.Equal(t, 0, id.gid, "unknown numeric uids keep gid 0, like docker --user")
		assert.Equal(t, "/", id.home)
		assert.Equal(t, "54321", id.username)
	})

	t.Run("numeric uid and gid", func(t *testing.T) {
		id, err := resolve("54321:54322")
		require.NoError(t, err)
		assert.Equal(t, 54321, id.uid)
		assert.Equal(t, 54322, id.gid)
	})

	t.Run("named group overrides", func(t *testing.T) {
		group, err := user.LookupGroupId(current.Gid)
		if err != nil {
			t.Skipf("no group entry for gid %s", current.Gid)
		}
		id, err := resolve("54321:" + group.Name)
		require.NoError(t, err)
		assert.Equal(t, atoiID(group.Gid), id.gid)
	})

	t.Run("unknown user name", func(t *testing.T) {
		_, err := resolve("pilot-test-no-such-user")
		assert.ErrorIs(t, err, ErrUnknownUser)
	})

	t.Run("unknown group name", func(t *testing.T) {
		_, err := resolve("54321:pilot-test-no-such-group")
		assert.ErrorIs(t, err, ErrUnknownGroup)
	})

	t.Run("root is refused", func(t *testing.T) {
		_, err := resolve("root")
		assert.ErrorIs(t, err, ErrRootTarget)

		_, err = resolve("0")
		assert.ErrorIs(t, err, ErrRootTarget)

		_, err = resolve("0:0")
		assert.ErrorIs(t, err, ErrRootTarget)
	})
}

func TestDropper_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, finitestate.StateDroppingPrivileges, New("").Name())
}

func TestDropper_SkipsWhenUnset(t *testing.T) {
	t.Parallel()

	res := New("").Run(t.Context())
	assert.True(t, res.OK())
	assert.Contains(t, res.Message, "no run-as user")
}

func TestDropper_NoopWhenAlreadyTarget(t *testing.T) {
	skipIfRoot(t)
	registerEnvRestore(t)

	spec := fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	res := New(spec).Run(t.Context())

	require.True(t, res.OK(), "unexpected result: %+v", res)
	assert.Contains(t, res.Message, strconv.Itoa(os.Getuid()))
	assert.NotEmpty(t, os.Getenv("USER"))
	assert.NotEmpty(t, os.Getenv("HOME"))
}

func TestDropper_FailsWithoutPrivileges(t *testing.T) {
	skipIfRoot(t)

	res := New("54321:54322").Run(t.Context())

	assert.Equal(t, bootstrap.StatusFailed, res.Status)
	assert.Equal(t, exitcode.PrivilegeDropFailed, res.Code)
	assert.Contains(t, res.Message, "privilege drop")
}

func TestDropper_RefusesRootTarget(t *testing.T) {
	res := New("root").Run(t.Context())

	assert.Equal(t, bootstrap.StatusFailed, res.Status)
	assert.Equal(t, exitcode.PrivilegeDropFailed, res.Code)
	assert.Contains(t, res.Message, "refusing")
}
