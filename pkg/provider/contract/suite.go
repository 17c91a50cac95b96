package contract

import (
	"fmt"

	domainProvider "boardkit/pkg/domain/provider"
	infraProvider "boardkit/pkg/provider"
)

// ContractSuite runs all contract assertions against a provider binary.
type ContractSuite struct {
	loader *infraProvider.Loader
}

// NewContractSuite creates a new contract suite.
func NewContractSuite() *ContractSuite {
	return &ContractSuite{
		loader: infraProvider.NewLoader(),
	}
}

// SuiteResult aggregates results from running the full contract suite.
type SuiteResult struct {
	Results []Result
	Passed  int
	Failed  int
}

// RunWithProvider runs the contract suite against an already-loaded
// provider instance.
func (s *ContractSuite) RunWithProvider(p domainProvider.Provider) *SuiteResult {
	assertions := []func(domainProvider.Provider) Result{
		AssertInitSuccess,
		AssertInitWithBadConfig,
		AssertListIterationsOrdered,
		AssertListItems,
		AssertSetIterationUnknownItem,
	}

	sr := &SuiteResult{}
	for _, assert := range assertions {
		result := assert(p)
		sr.Results = append(sr.Results, result)
		if result.Passed {
			sr.Passed++
		} else {
			sr.Failed++
		}
	}
	return sr
}

// RunBinary loads a provider binary and runs the full contract suite.
func (s *ContractSuite) RunBinary(path string) (*SuiteResult, error) {
	defer s.loader.Cleanup()

	p, err := s.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load provider: %w", err)
	}

	return s.RunWithProvider(p), nil
}
