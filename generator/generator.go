// Package generator derives Pedersen generators with unknown discrete logs.
package generator

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

var generatorDST = []byte("RINGO-SDLP-V01-CS02-with-BN254G1_XMD:SHA-256_SVDW_RO_")

// Generators is a set of Pedersen generators.
// It is read-only after creation, and can be shared between proofs.
type Generators struct {
	G []bn254.G1Affine
	H []bn254.G1Affine
	U bn254.G1Affine
}

// Derive deterministically derives n generators for each of G and H, and one U,
// bound to label.
func Derive(label string, n int) (Generators, error) {
	if n < 0 {
		return Generators{}, errors.Errorf("generator: negative count %d", n)
	}

	gens := Generators{
		G: make([]bn254.G1Affine, n),
		H: make([]bn254.G1Affine, n),
	}

	u, err := hashToPoint(label, 'u', 0)
	if err != nil {
		return Generators{}, err
	}
	gens.U = u

	type job struct {
		kind byte
		idx  int
	}

	jobChan := make(chan job)
	go func() {
		defer close(jobChan)
		for i := 0; i < n; i++ {
			jobChan <- job{kind: 'g', idx: i}
			jobChan <- job{kind: 'h', idx: i}
		}
	}()

	workSize := max(min(runtime.NumCPU(), 2*n), 1)
	errs := make([]error, workSize)

	var wg sync.WaitGroup
	wg.Add(workSize)
	for w := 0; w < workSize; w++ {
		go func(idx int) {
			defer wg.Done()
			for j := range jobChan {
				p, err := hashToPoint(label, j.kind, j.idx)
				if err != nil {
					errs[idx] = err
					continue
				}
				if j.kind == 'g' {
					gens.G[j.idx] = p
				} else {
					gens.H[j.idx] = p
				}
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Generators{}, err
		}
	}

	return gens, nil
}

func hashToPoint(label string, kind byte, idx int) (bn254.G1Affine, error) {
	var idxBytes [8]byte
	binary.LittleEndian.PutUint64(idxBytes[:], uint64(idx))

	hasher := blake3.New()
	hasher.Write([]byte(label))
	hasher.Write([]byte{kind})
	hasher.Write(idxBytes[:])
	seed := hasher.Sum(nil)

	p, err := bn254.HashToG1(seed, generatorDST)
	if err != nil {
		return bn254.G1Affine{}, errors.Wrapf(err, "generator: hash to curve failed for %c[%d]", kind, idx)
	}
	return p, nil
}
