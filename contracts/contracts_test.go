package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs, BankDir)
	require.Error(t, err)

	// Missing manifest.
	_fs[BankDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs, BankDir)
	require.Error(t, err)
}

func TestRead(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = BankDir + "/" + nefName
		manifestPath = BankDir + "/" + manifestName
	)

	expNEF, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "Bank")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	c, err := Read(_fs, BankDir)
	require.NoError(t, err)
	require.Equal(t, "Bank", c.Manifest.Name)
	require.Equal(t, expNEF.Script, c.NEF.Script)
	require.Equal(t, expNEF.Checksum, c.NEF.Checksum)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = BankDir + "/" + nefName
		manifestPath = BankDir + "/" + manifestName
	)

	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "zero")

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err := Read(_fs, BankDir)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = Read(_fs, BankDir)
	require.ErrorIs(t, err, errInvalidManifest)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
