//go:build !unix

package term

import "os"

func setNonblock(int, bool) error {
	return nil
}

func readByte(_ int, buf []byte) (bool, error) {
	n, err := os.Stdin.Read(buf)
	return n > 0, err
}
