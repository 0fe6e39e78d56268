// Command xorblock generates key material and ciphers single blocks from the
// command line.
package main

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/TroyNeubauer/encryption"
	"github.com/TroyNeubauer/encryption/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	cfg := config.Load()
	logger := log.New(errOut, "[xorblock] ", 0)

	switch args[0] {
	case "genkey":
		return cmdGenKey(args[1:], cfg, out, errOut, logger)
	case "fingerprint":
		return cmdFingerprint(args[1:], cfg, out, errOut, logger)
	case "cipher":
		return cmdCipher(args[1:], cfg, out, errOut, logger)
	case "audit":
		return cmdAudit(args[1:], cfg, out, errOut, logger)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "xorblock: windowed XOR block cipher tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xorblock genkey --out <path> [--size <bytes>] [--seed <hex>] [--force]")
	fmt.Fprintln(w, "  xorblock fingerprint [--key <path>]")
	fmt.Fprintln(w, "  xorblock cipher [--key <path>] [--alg 1|2] [--window word|bit] --index <n> [--offset <hex>] (--hex <hex> | --text <string>) [--hex-out]")
	fmt.Fprintln(w, "  xorblock audit [--key <path>] [--alg 1|2] [--window word|bit] [--count <n>] [--offset <hex>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - defaults come from ENCRYPTION_KEY_FILE, ENCRYPTION_KEY_SIZE, ENCRYPTION_ALGORITHM, ENCRYPTION_WINDOWING")
	fmt.Fprintln(w, "  - --offset is big-endian hex, 4 bytes for --alg 1 and 8 bytes for --alg 2; random when omitted")
	fmt.Fprintln(w, "  - input must be exactly one block (28 bytes for --alg 1, 248 for --alg 2); there is no padding")
	fmt.Fprintln(w, "  - encryption and decryption are the same command: cipher the output again with the same key, offset and index")
	fmt.Fprintln(w, "  - cipher prints hex on a terminal and raw bytes otherwise")
}

func cmdGenKey(args []string, cfg *config.Config, out, errOut io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("genkey", flag.ContinueOnError)
	fs.SetOutput(errOut)
	path := fs.String("out", cfg.KeyFile, "key file to write")
	size := fs.Int("size", cfg.KeySize, "key size in bytes")
	seedHex := fs.String("seed", "", "derive the key from this hex seed instead of random bytes")
	force := fs.Bool("force", false, "overwrite an existing key file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var (
		key *encryption.KeyMaterial
		err error
	)
	if *seedHex != "" {
		seed, perr := parseHex(*seedHex)
		if perr != nil {
			fmt.Fprintf(errOut, "invalid seed: %v\n", perr)
			return 2
		}
		key, err = encryption.ExpandKeyMaterial(seed, *size)
	} else {
		key, err = encryption.GenerateKeyMaterial(*size)
	}
	if err != nil {
		fmt.Fprintf(errOut, "generate key: %v\n", err)
		return 1
	}

	if err := encryption.SaveKeyMaterial(*path, key, *force); err != nil {
		fmt.Fprintf(errOut, "save key: %v\n", err)
		return 1
	}
	logger.Printf("wrote %d bytes of key material to %s", key.Len(), *path)
	fmt.Fprintln(out, key.Fingerprint())
	return 0
}

func cmdFingerprint(args []string, cfg *config.Config, out, errOut io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("fingerprint", flag.ContinueOnError)
	fs.SetOutput(errOut)
	path := fs.String("key", cfg.KeyFile, "key file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	key, err := encryption.LoadKeyMaterial(*path, 0)
	if err != nil {
		fmt.Fprintf(errOut, "load key: %v\n", err)
		return 1
	}
	logger.Printf("%s: %d bytes", *path, key.Len())
	fmt.Fprintln(out, key.Fingerprint())
	return 0
}

// blockCipher is the part of Algorithm1 and Algorithm2 the tool needs.
type blockCipher interface {
	BlockSize() int
	cipher(index uint64, buf []byte)
}

type alg1 struct{ *encryption.Algorithm1 }

func (a alg1) cipher(index uint64, buf []byte) {
	var b [encryption.Block1Size]byte
	copy(b[:], buf)
	blk := encryption.NewBlock1(b)
	a.CipherBlock(uint32(index), blk)
	copy(buf, blk.Bytes())
}

type alg2 struct{ *encryption.Algorithm2 }

func (a alg2) cipher(index uint64, buf []byte) {
	var b [encryption.Block2Size]byte
	copy(b[:], buf)
	blk := encryption.NewBlock2(b)
	a.CipherBlock(index, blk)
	copy(buf, blk.Bytes())
}

// cipherFlags are the flags shared by cipher and audit.
type cipherFlags struct {
	key    *string
	size   *int
	alg    *int
	window *string
	offset *string
}

func addCipherFlags(fs *flag.FlagSet, cfg *config.Config) *cipherFlags {
	return &cipherFlags{
		key:    fs.String("key", cfg.KeyFile, "key file"),
		size:   fs.Int("size", 0, "required key size in bytes (0 accepts any size)"),
		alg:    fs.Int("alg", cfg.Algorithm, "algorithm: 1 (28 byte blocks) or 2 (248 byte blocks)"),
		window: fs.String("window", cfg.Window, "windowing: word or bit"),
		offset: fs.String("offset", "", "secret index offset as big-endian hex"),
	}
}

// loadKey loads the key file named by the flags.
func (f *cipherFlags) loadKey() (*encryption.KeyMaterial, error) {
	key, err := encryption.LoadKeyMaterial(*f.key, *f.size)
	if err != nil {
		return nil, errors.Wrap(err, "load key")
	}
	return key, nil
}

// build constructs the selected algorithm over key.
func (f *cipherFlags) build(key *encryption.KeyMaterial, logger *log.Logger) (blockCipher, error) {
	c := config.Config{KeyFile: *f.key, KeySize: key.Len(), Algorithm: *f.alg, Window: *f.window}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	width := 8
	if *f.alg == 1 {
		width = 4
	}
	offset, err := parseOffset(*f.offset, width)
	if err != nil {
		return nil, err
	}
	if *f.offset == "" {
		logger.Printf("using random index offset 0x%0*x", width*2, offset)
	}

	opt := encryption.WithWindowing(c.Windowing())
	if *f.alg == 1 {
		a, err := encryption.NewAlgorithm1(key, uint32(offset), opt)
		if err != nil {
			return nil, err
		}
		return alg1{a}, nil
	}
	a, err := encryption.NewAlgorithm2(key, offset, opt)
	if err != nil {
		return nil, err
	}
	return alg2{a}, nil
}

func cmdCipher(args []string, cfg *config.Config, out, errOut io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("cipher", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cf := addCipherFlags(fs, cfg)
	index := fs.Uint64("index", 0, "block index")
	hexIn := fs.String("hex", "", "input block as hex")
	textIn := fs.String("text", "", "input block as text")
	hexOut := fs.Bool("hex-out", false, "always print hex")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (*hexIn == "") == (*textIn == "") {
		fmt.Fprintln(errOut, "exactly one of --hex or --text is required")
		return 2
	}
	if *cf.alg == 1 && *index > math.MaxUint32 {
		fmt.Fprintf(errOut, "index %d does not fit the 32-bit index of algorithm 1\n", *index)
		return 2
	}

	key, err := cf.loadKey()
	if err != nil {
		fmt.Fprintf(errOut, "cipher: %v\n", err)
		return 1
	}
	c, err := cf.build(key, logger)
	if err != nil {
		fmt.Fprintf(errOut, "cipher: %v\n", err)
		return 1
	}

	input := []byte(*textIn)
	if *hexIn != "" {
		if input, err = parseHex(*hexIn); err != nil {
			fmt.Fprintf(errOut, "invalid hex input: %v\n", err)
			return 2
		}
	}
	if len(input) != c.BlockSize() {
		fmt.Fprintf(errOut, "input is %d bytes, algorithm %d needs exactly %d\n", len(input), *cf.alg, c.BlockSize())
		return 2
	}

	c.cipher(*index, input)

	if *hexOut || isTerminal(out) {
		fmt.Fprintln(out, hex.EncodeToString(input))
		return 0
	}
	if _, err := out.Write(input); err != nil {
		logger.Printf("write output: %v", err)
		return 1
	}
	return 0
}

func cmdAudit(args []string, cfg *config.Config, out, errOut io.Writer, logger *log.Logger) int {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cf := addCipherFlags(fs, cfg)
	count := fs.Uint64("count", 100000, "number of sequential indices to cipher")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *cf.alg == 1 && *count > math.MaxUint32+1 {
		fmt.Fprintf(errOut, "count %d exceeds the 32-bit index space of algorithm 1\n", *count)
		return 2
	}

	key, err := cf.loadKey()
	if err != nil {
		fmt.Fprintf(errOut, "audit: %v\n", err)
		return 1
	}
	audit := encryption.NewWindowAudit()
	c, err := cf.build(key.WithAudit(audit), logger)
	if err != nil {
		fmt.Fprintf(errOut, "audit: %v\n", err)
		return 1
	}
	logger.Printf("ciphering %d blocks with algorithm %d and %s windows", *count, *cf.alg, *cf.window)

	buf := make([]byte, c.BlockSize())
	for i := uint64(0); i < *count; i++ {
		c.cipher(i, buf)
	}

	lo, hi := audit.Spread()
	fmt.Fprintf(out, "blocks:   %d\n", audit.Total())
	fmt.Fprintf(out, "windows:  %d\n", audit.Distinct())
	fmt.Fprintf(out, "min uses: %d\n", lo)
	fmt.Fprintf(out, "max uses: %d\n", hi)
	return 0
}

// parseHex decodes hex with an optional 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}

// parseOffset decodes a big-endian index offset of exactly width bytes, or
// draws a random one when s is empty.
func parseOffset(s string, width int) (uint64, error) {
	var b [8]byte
	if s == "" {
		if _, err := rand.Read(b[8-width:]); err != nil {
			return 0, errors.Wrap(err, "random offset")
		}
		return binary.BigEndian.Uint64(b[:]), nil
	}
	raw, err := parseHex(s)
	if err != nil {
		return 0, errors.Wrap(err, "invalid offset")
	}
	if len(raw) != width {
		return 0, errors.Errorf("offset must be %d bytes, got %d", width, len(raw))
	}
	copy(b[8-width:], raw)
	return binary.BigEndian.Uint64(b[:]), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
