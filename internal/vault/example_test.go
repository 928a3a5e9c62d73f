package vault_test

import (
	"encoding/json"
	"fmt"

	"github.com/decentralized-identity/fuzzy-encryption/internal/vault"
)

// ExampleGenKeys walks the three-call protocol end to end: generate
// parameters, commit a secret, then recover keys from the exact original
// words. It is grounded on the original C++ driver's demo.cpp, which runs
// the same setSize=9/correctThreshold=6/corpusSize=7776 configuration.
func ExampleGenKeys() {
	input, _ := json.Marshal(map[string]int{
		"setSize":          9,
		"correctThreshold": 6,
		"corpusSize":       7776,
	})
	originalWords, _ := json.Marshal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9})

	params, err := vault.GenParams(input)
	if err != nil {
		fmt.Println("gen_params failed:", err)
		return
	}
	secret, err := vault.GenSecret(params, originalWords)
	if err != nil {
		fmt.Println("gen_secret failed:", err)
		return
	}

	keys, err := vault.GenKeys(secret, originalWords, 1)
	if err != nil {
		fmt.Println("gen_keys failed:", err)
		return
	}

	var keyList []string
	_ = json.Unmarshal(keys, &keyList)
	fmt.Println(len(keyList) == 1)

	// Output:
	// true
}
