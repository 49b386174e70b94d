/*
Package contracts provides access to compiled Bank contract.

Contract is compiled with

	neo-go contract compile -i contracts/bank -c contracts/bank/config.yml \
	    -m contracts/bank/manifest.json -o contracts/bank/contract.nef

and read from the resulting directory.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// BankDir is a directory of Bank contract relative to the repository root.
	BankDir = "contracts/bank"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// Read reads compiled contract from the given directory of fsys. The directory
// must contain contract.nef and manifest.json files.
func Read(fsys fs.FS, dir string) (Contract, error) {
	c, err := readContractFromDir(fsys, dir)
	if err != nil {
		return c, fmt.Errorf("read contract %s: %w", dir, err)
	}

	return c, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
