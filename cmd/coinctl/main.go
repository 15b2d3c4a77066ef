// coinctl is a command-line client for a running coinnoded node: it reads
// or generates a wallet keystore and talks to the node's REST wire surface
// over HTTP.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"syscall"

	"github.com/abhi0166/custom-crypto-coin/config"
	"github.com/abhi0166/custom-crypto-coin/internal/wallet"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	node := "http://127.0.0.1:5000"
	dataDir := config.DefaultDataDir()
	id := ""

	args := os.Args[1:]
	for len(args) > 0 {
		switch args[0] {
		case "--node":
			if len(args) < 2 {
				fatal("--node requires a value")
			}
			node = args[1]
			args = args[2:]
		case "--datadir":
			if len(args) < 2 {
				fatal("--datadir requires a value")
			}
			dataDir = args[1]
			args = args[2:]
		case "--id":
			if len(args) < 2 {
				fatal("--id requires a value")
			}
			id = args[1]
			args = args[2:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]
	ks := wallet.NewKeystore(dataDir, id)

	switch cmd {
	case "keygen":
		cmdKeygen(ks)
	case "seal":
		cmdSeal(ks, cmdArgs)
	case "unseal":
		cmdUnseal(cmdArgs)
	case "status":
		cmdStatus(node)
	case "balance":
		cmdBalance(node)
	case "send":
		cmdSend(node, ks, cmdArgs)
	case "register":
		cmdRegister(node, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: coinctl [global flags] <command> [args]

Global flags:
  --node <url>      Node HTTP address (default: http://127.0.0.1:5000)
  --datadir <path>  Keystore directory (default: %s)
  --id <string>     Disambiguate wallet key files for multiple local nodes

Commands:
  keygen                     Generate and save a fresh wallet key pair
  seal <path>                Encrypt the keystore wallet to path under a password
  unseal <path>               Decrypt a sealed wallet and print its public key
  status                     Show the node's status line
  balance                    Show the node's own wallet balance
  send <recipient> <amount>  Sign and submit a transaction
  register <peer> [peer...]  Register peer node addresses
`, config.DefaultDataDir())
}

func cmdKeygen(ks *wallet.Keystore) {
	if ks.Exists() {
		fatal("a wallet already exists at this keystore path; refusing to overwrite")
	}
	w, err := wallet.Generate()
	if err != nil {
		fatal("generate wallet: %v", err)
	}
	if err := ks.Save(w); err != nil {
		fatal("save wallet: %v", err)
	}
	pub, err := w.PublicKeyPEM()
	if err != nil {
		fatal("read public key: %v", err)
	}
	fmt.Println(pub)
}

func cmdSeal(ks *wallet.Keystore, args []string) {
	if len(args) < 1 {
		fatal("Usage: coinctl seal <output-path>")
	}
	w, err := ks.Load()
	if err != nil {
		fatal("load keystore wallet: %v", err)
	}
	password, err := readPassword("Set a password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if err := wallet.SealedSave(w, args[0], password); err != nil {
		fatal("seal wallet: %v", err)
	}
	fmt.Printf("Sealed wallet written to %s\n", args[0])
}

func cmdUnseal(args []string) {
	if len(args) < 1 {
		fatal("Usage: coinctl unseal <path>")
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	w, err := wallet.SealedLoad(args[0], password)
	if err != nil {
		fatal("unseal wallet: %v", err)
	}
	pub, err := w.PublicKeyPEM()
	if err != nil {
		fatal("read public key: %v", err)
	}
	fmt.Println(pub)
}

func cmdStatus(node string) {
	resp, err := http.Get(node + "/")
	if err != nil {
		fatal("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Print(string(body))
}

func cmdBalance(node string) {
	// Balance is computed against the node's own wallet identity, so this
	// just relays GET /wallet/balance — it reports the node operator's
	// balance, not an arbitrary address.
	resp, err := http.Get(node + "/wallet/balance")
	if err != nil {
		fatal("GET /wallet/balance: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		PublicKey string  `json:"public_key"`
		Balance   float64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fatal("decode response: %v", err)
	}
	fmt.Printf("Public key: %s\n", body.PublicKey)
	fmt.Printf("Balance:    %v\n", body.Balance)
}

func cmdSend(node string, ks *wallet.Keystore, args []string) {
	if len(args) < 2 {
		fatal("Usage: coinctl send <recipient> <amount>")
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fatal("invalid amount: %v", err)
	}
	w, err := ks.Load()
	if err != nil {
		fatal("load keystore wallet: %v", err)
	}
	signed, err := w.Sign(args[0], amount)
	if err != nil {
		fatal("sign transaction: %v", err)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(signed); err != nil {
		fatal("encode transaction: %v", err)
	}

	resp, err := http.Post(node+"/transactions/new", "application/json", &buf)
	if err != nil {
		fatal("POST /transactions/new: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s: %s\n", resp.Status, string(body))
}

func cmdRegister(node string, peers []string) {
	if len(peers) == 0 {
		fatal("Usage: coinctl register <peer> [peer...]")
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(struct {
		Nodes []string `json:"nodes"`
	}{Nodes: peers}); err != nil {
		fatal("encode request: %v", err)
	}

	resp, err := http.Post(node+"/nodes/register", "application/json", &buf)
	if err != nil {
		fatal("POST /nodes/register: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s: %s\n", resp.Status, string(body))
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
