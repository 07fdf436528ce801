// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-certmint
//
// go-certmint is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-certmint is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-certmint.  If not, see <https://www.gnu.org/licenses/>.

package kmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/serr"
)

const (
	timeoutSecs = 120

	// KMDTokenHeader is the HTTP header used for kmd authentication
	KMDTokenHeader = "X-KMD-API-Token"
)

// KMDClient is the client used to interact with the kmd API over HTTP
type KMDClient struct {
	httpClient http.Client
	apiToken   string
	address    string
	limiter    *rate.Limiter
}

func makeHTTPClient() http.Client {
	client := http.Client{
		Timeout: timeoutSecs * time.Second,
	}
	return client
}

// MakeKMDClient instantiates a KMDClient for the given base URL and apiToken.
// A positive requestsPerSecond throttles every call.
func MakeKMDClient(address string, apiToken string, requestsPerSecond float64) (KMDClient, error) {
	if address == "" {
		return KMDClient{}, serr.Configuration("kmd address is not set")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	kcl := KMDClient{
		httpClient: makeHTTPClient(),
		apiToken:   apiToken,
		address:    strings.TrimRight(address, "/"),
	}
	if requestsPerSecond > 0 {
		kcl.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return kcl, nil
}

// DoV1Request sends a request and decodes the enveloped response into resp.
func (kcl KMDClient) DoV1Request(ctx context.Context, req APIV1Request, resp APIV1Response) error {
	// Get the path and method for this request type
	reqPath, reqMethod, err := getPathAndMethod(req)
	if err != nil {
		return err
	}

	if kcl.limiter != nil {
		if err = kcl.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	body := protocol.EncodeJSON(req)
	fullPath := fmt.Sprintf("%s/%s", kcl.address, reqPath)
	hreq, err := http.NewRequestWithContext(ctx, reqMethod, fullPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	hreq.Header.Add(KMDTokenHeader, kcl.apiToken)

	hresp, err := kcl.httpClient.Do(hreq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return serr.Transient(err, "path", reqPath)
	}
	defer hresp.Body.Close()

	decoder := protocol.NewLenientJSONDecoder(hresp.Body)
	err = decoder.Decode(resp)
	if err != nil {
		return serr.Transient(fmt.Errorf("cannot decode kmd response (HTTP %s): %w", hresp.Status, err), "path", reqPath)
	}

	// Check if this was an error response
	if err = resp.GetError(); err != nil {
		return serr.Wrap(serr.KindConfiguration, err, "path", reqPath)
	}
	return nil
}

// ListWallets returns the wallets kmd manages.
func (kcl KMDClient) ListWallets(ctx context.Context) ([]APIV1Wallet, error) {
	var resp APIV1GETWalletsResponse
	err := kcl.DoV1Request(ctx, APIV1GETWalletsRequest{}, &resp)
	return resp.Wallets, err
}

// InitWallet unlocks a wallet and returns a handle token for it.
func (kcl KMDClient) InitWallet(ctx context.Context, walletID, password string) (string, error) {
	var resp APIV1POSTWalletInitResponse
	err := kcl.DoV1Request(ctx, APIV1POSTWalletInitRequest{WalletID: walletID, WalletPassword: password}, &resp)
	return resp.WalletHandleToken, err
}

// ReleaseWalletHandle invalidates a handle token.
func (kcl KMDClient) ReleaseWalletHandle(ctx context.Context, handle string) error {
	var resp APIV1POSTWalletReleaseResponse
	return kcl.DoV1Request(ctx, APIV1POSTWalletReleaseRequest{WalletHandleToken: handle}, &resp)
}

// ListKeys returns the addresses held by the wallet behind handle.
func (kcl KMDClient) ListKeys(ctx context.Context, handle string) ([]string, error) {
	var resp APIV1POSTKeyListResponse
	err := kcl.DoV1Request(ctx, APIV1POSTKeyListRequest{WalletHandleToken: handle}, &resp)
	return resp.Addresses, err
}

// ExportKey returns the 64-byte private key of address.
func (kcl KMDClient) ExportKey(ctx context.Context, handle, password, address string) ([]byte, error) {
	var resp APIV1POSTKeyExportResponse
	err := kcl.DoV1Request(ctx, APIV1POSTKeyExportRequest{
		WalletHandleToken: handle,
		Address:           address,
		WalletPassword:    password,
	}, &resp)
	return resp.PrivateKey, err
}

// GenesisAccounts exports every key of the named wallet, or of the first
// wallet when walletName is empty or not found. On a private network these
// are the funded genesis accounts.
func (kcl KMDClient) GenesisAccounts(ctx context.Context, walletName, password string) ([]*account.KeyAccount, error) {
	wallets, err := kcl.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, serr.Configuration("kmd has no wallets")
	}
	wallet := wallets[0]
	for _, w := range wallets {
		if w.Name == walletName {
			wallet = w
			break
		}
	}

	handle, err := kcl.InitWallet(ctx, wallet.ID, password)
	if err != nil {
		return nil, err
	}
	defer kcl.ReleaseWalletHandle(context.WithoutCancel(ctx), handle)

	addresses, err := kcl.ListKeys(ctx, handle)
	if err != nil {
		return nil, err
	}

	accounts := make([]*account.KeyAccount, 0, len(addresses))
	for _, addr := range addresses {
		sk, err := kcl.ExportKey(ctx, handle, password, addr)
		if err != nil {
			return nil, err
		}
		acct, err := account.KeyAccountFromPrivateKey(sk)
		if err != nil {
			return nil, serr.Wrap(serr.KindConfiguration, err, "address", addr)
		}
		if acct.Address().String() != addr {
			return nil, serr.Configuration("exported key does not match its address", "address", addr)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}
