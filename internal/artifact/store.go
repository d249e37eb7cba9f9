// Package artifact loads compiled contracts from a Hardhat artifacts directory.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/altuslabsxyz/deployer/internal/paths"
)

// Errors returned by Store.Load.
var (
	ErrNotFound        = errors.New("artifact not found")
	ErrAmbiguous       = errors.New("ambiguous contract name")
	ErrNoBytecode      = errors.New("artifact has no deployable bytecode")
	ErrUnlinkedLibrary = errors.New("artifact bytecode has unlinked library references")
)

// Artifact is a compiled contract ready for deployment.
type Artifact struct {
	ContractName string
	SourceName   string
	ABI          abi.ABI
	Bytecode     []byte
	// SolcVersion is read from the build-info file when available.
	SolcVersion string
	Path        string
}

// FullyQualifiedName returns "<source>:<contract>".
func (a *Artifact) FullyQualifiedName() string {
	return a.SourceName + ":" + a.ContractName
}

// hardhatArtifact is the on-disk format ("hh-sol-artifact-1").
type hardhatArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// debugArtifact is the <Contract>.dbg.json file pointing at build info.
type debugArtifact struct {
	Format    string `json:"_format"`
	BuildInfo string `json:"buildInfo"`
}

type buildInfo struct {
	SolcVersion     string `json:"solcVersion"`
	SolcLongVersion string `json:"solcLongVersion"`
}

// Store reads artifacts from a directory laid out by Hardhat.
type Store struct {
	dir string
}

// NewStore creates a store over an artifacts directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load finds and decodes the artifact for name, which is either a contract
// name ("SocialMedia") or a fully qualified name ("contracts/SocialMedia.sol:SocialMedia").
func (s *Store) Load(name string) (*Artifact, error) {
	path, err := s.find(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI in %s: %w", path, err)
	}

	bytecode, err := decodeBytecode(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", raw.ContractName, err)
	}

	a := &Artifact{
		ContractName: raw.ContractName,
		SourceName:   raw.SourceName,
		ABI:          parsedABI,
		Bytecode:     bytecode,
		Path:         path,
	}
	a.SolcVersion = s.readSolcVersion(path)

	return a, nil
}

// List returns the fully qualified names of all artifacts in the store.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.walk(func(path, contract string) {
		source, err := filepath.Rel(s.dir, filepath.Dir(path))
		if err != nil {
			return
		}
		names = append(names, filepath.ToSlash(source)+":"+contract)
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) find(name string) (string, error) {
	if source, contract, ok := strings.Cut(name, ":"); ok {
		path := paths.ArtifactPath(s.dir, source, contract)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s (looked in %s)", ErrNotFound, name, path)
		}
		return path, nil
	}

	var matches []string
	err := s.walk(func(path, contract string) {
		if contract == name {
			matches = append(matches, path)
		}
	})
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s in %s (run the compiler first)", ErrNotFound, name, s.dir)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w: %s matches %s; use <source>:<contract>", ErrAmbiguous, name, strings.Join(matches, ", "))
	}
}

// walk calls fn for every artifact file, skipping build-info and debug files.
func (s *Store) walk(fn func(path, contract string)) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("%w: artifacts directory %s: %v", ErrNotFound, s.dir, err)
	}

	return filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		base := d.Name()
		if !strings.HasSuffix(base, paths.ArtifactExt) || strings.HasSuffix(base, paths.DebugArtifactExt) {
			return nil
		}
		// Artifacts live in a directory named after their source file.
		if !strings.HasSuffix(filepath.Dir(path), ".sol") {
			return nil
		}
		fn(path, strings.TrimSuffix(base, paths.ArtifactExt))
		return nil
	})
}

// readSolcVersion follows <Contract>.dbg.json to its build info. Missing or
// malformed debug files yield an empty version.
func (s *Store) readSolcVersion(artifactPath string) string {
	dbgPath := paths.DebugArtifactPath(artifactPath)
	data, err := os.ReadFile(dbgPath)
	if err != nil {
		return ""
	}

	var dbg debugArtifact
	if err := json.Unmarshal(data, &dbg); err != nil || dbg.BuildInfo == "" {
		return ""
	}

	infoPath := dbg.BuildInfo
	if !filepath.IsAbs(infoPath) {
		infoPath = filepath.Join(filepath.Dir(dbgPath), filepath.FromSlash(infoPath))
	}
	data, err = os.ReadFile(infoPath)
	if err != nil {
		return ""
	}

	var info buildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ""
	}
	return info.SolcVersion
}

func decodeBytecode(hexCode string) ([]byte, error) {
	if strings.Contains(hexCode, "__$") {
		return nil, ErrUnlinkedLibrary
	}
	if hexCode == "" || hexCode == "0x" {
		return nil, ErrNoBytecode
	}
	if !strings.HasPrefix(hexCode, "0x") {
		hexCode = "0x" + hexCode
	}
	code, err := hexutil.Decode(hexCode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	return code, nil
}
