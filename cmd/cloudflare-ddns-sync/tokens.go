package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/registry"
)

// account is one API token to inspect, labelled for output.
type account struct {
	Label string
	Token string
}

// Swapped in tests.
var (
	newInspector = func(token string, cf *config.CloudflareConfig, bind netip.Addr) (tokenInspector, error) {
		client, err := registry.NewHTTPClient(cf, bind)
		if err != nil {
			return nil, err
		}
		return registry.NewInspector(token, cf.APIURL, client)
	}
	readToken = promptToken
)

// promptToken reads a token without echo when stdin is a terminal and as a
// plain line otherwise.
func promptToken(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("error reading from stdin: %w", err)
		}
		return strings.TrimSpace(line), nil
	}
	fmt.Fprint(out, "Enter Cloudflare API token: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("error reading from stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// resolveAccounts picks the tokens a helper command works on. With prompt set
// only the cloudflare section of the config is needed.
func resolveAccounts(prompt bool, out io.Writer) ([]account, *config.CloudflareConfig, netip.Addr, error) {
	if prompt {
		cf, err := config.LoadCloudflare()
		if err != nil {
			return nil, nil, netip.Addr{}, err
		}
		token, err := readToken(out)
		if err != nil {
			return nil, nil, netip.Addr{}, err
		}
		if token == "" {
			return nil, nil, netip.Addr{}, errors.New("no token entered")
		}
		return []account{{Label: "prompt", Token: token}}, cf, netip.Addr{}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, netip.Addr{}, err
	}
	accounts := make([]account, 0, len(cfg.Accounts))
	for i, a := range cfg.Accounts {
		accounts = append(accounts, account{
			Label: fmt.Sprintf("account %d (%s)", i, config.MaskToken(a.Token)),
			Token: a.Token,
		})
	}
	return accounts, &cfg.Cloudflare, cfg.GlobalBindAddress(), nil
}
