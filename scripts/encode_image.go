package main

import (
	"encoding/base64"
	"fmt"
	"os"
)

// encode_image.go - Utility to base64-encode a document image for the
// process_document action
//
// Usage:
//   go run scripts/encode_image.go <image_file>
//
// Example:
//   go run scripts/encode_image.go testdata/passport.jpg
//
// Output:
//   the image_data value to paste into a POST /v1/kyc body

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run encode_image.go <image_file>")
		fmt.Println("")
		fmt.Println("Example:")
		fmt.Println("  go run scripts/encode_image.go testdata/passport.jpg")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(base64.StdEncoding.EncodeToString(data))
}
