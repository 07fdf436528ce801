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
	"errors"
	"fmt"
)

// APIV1Request is the interface that all API V1 requests must satisfy
type APIV1Request interface{}

// APIV1Response is the interface that all API V1 responses must satisfy
type APIV1Response interface {
	GetError() error
}

// APIV1ResponseEnvelope is a common envelope that all API V1 responses must embed
type APIV1ResponseEnvelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// GetError allows responses that embed an APIV1ResponseEnvelope to satisfy
// the APIV1Response interface
func (r APIV1ResponseEnvelope) GetError() error {
	if r.Error {
		return errors.New(r.Message)
	}
	return nil
}

// APIV1Wallet is the API's representation of a wallet
type APIV1Wallet struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	DriverName            string   `json:"driver_name"`
	DriverVersion         uint32   `json:"driver_version"`
	SupportsMnemonicUX    bool     `json:"mnemonic_ux"`
	SupportedTransactions []string `json:"supported_txs"`
}

// APIV1GETWalletsRequest is the request for `GET /v1/wallets`
type APIV1GETWalletsRequest struct{}

// APIV1GETWalletsResponse is the response to `GET /v1/wallets`
type APIV1GETWalletsResponse struct {
	APIV1ResponseEnvelope
	Wallets []APIV1Wallet `json:"wallets"`
}

// APIV1POSTWalletInitRequest is the request for `POST /v1/wallet/init`
type APIV1POSTWalletInitRequest struct {
	WalletID       string `json:"wallet_id"`
	WalletPassword string `json:"wallet_password"`
}

// APIV1POSTWalletInitResponse is the response to `POST /v1/wallet/init`
type APIV1POSTWalletInitResponse struct {
	APIV1ResponseEnvelope
	WalletHandleToken string `json:"wallet_handle_token"`
}

// APIV1POSTWalletReleaseRequest is the request for `POST /v1/wallet/release`
type APIV1POSTWalletReleaseRequest struct {
	WalletHandleToken string `json:"wallet_handle_token"`
}

// APIV1POSTWalletReleaseResponse is the response to `POST /v1/wallet/release`
type APIV1POSTWalletReleaseResponse struct {
	APIV1ResponseEnvelope
}

// APIV1POSTKeyListRequest is the request for `POST /v1/key/list`
type APIV1POSTKeyListRequest struct {
	WalletHandleToken string `json:"wallet_handle_token"`
}

// APIV1POSTKeyListResponse is the response to `POST /v1/key/list`
type APIV1POSTKeyListResponse struct {
	APIV1ResponseEnvelope
	Addresses []string `json:"addresses"`
}

// APIV1POSTKeyExportRequest is the request for `POST /v1/key/export`
type APIV1POSTKeyExportRequest struct {
	WalletHandleToken string `json:"wallet_handle_token"`
	Address           string `json:"address"`
	WalletPassword    string `json:"wallet_password"`
}

// APIV1POSTKeyExportResponse is the response to `POST /v1/key/export`
type APIV1POSTKeyExportResponse struct {
	APIV1ResponseEnvelope
	PrivateKey []byte `json:"private_key"`
}

// getPathAndMethod infers the request path and method from the request type
func getPathAndMethod(req APIV1Request) (reqPath string, reqMethod string, err error) {
	switch req.(type) {
	default:
		err = fmt.Errorf("unknown request type %T", req)
	case APIV1GETWalletsRequest:
		reqPath = "v1/wallets"
		reqMethod = "GET"
	case APIV1POSTWalletInitRequest:
		reqPath = "v1/wallet/init"
		reqMethod = "POST"
	case APIV1POSTWalletReleaseRequest:
		reqPath = "v1/wallet/release"
		reqMethod = "POST"
	case APIV1POSTKeyListRequest:
		reqPath = "v1/key/list"
		reqMethod = "POST"
	case APIV1POSTKeyExportRequest:
		reqPath = "v1/key/export"
		reqMethod = "POST"
	}
	return
}
