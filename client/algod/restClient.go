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

package algod

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"golang.org/x/time/rate"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/serr"
)

const (
	authHeader          = "X-Algo-API-Token"
	healthCheckEndpoint = "/health"
	maxRawResponseBytes = 50e6
	requestTimeout      = 2 * time.Minute
)

// rawRequestPaths is a set of paths where the body should not be urlencoded
var rawRequestPaths = map[string]bool{
	"/v2/transactions": true,
	"/v2/teal/compile": true,
}

// unauthorizedRequestError is generated when we receive 401 error from the server. This error includes the inner error
// as well as the likely parameters that caused the issue.
type unauthorizedRequestError struct {
	errorString string
	apiToken    string
	url         string
}

// Error format an error string for the unauthorizedRequestError error.
func (e unauthorizedRequestError) Error() string {
	return fmt.Sprintf("Unauthorized request to `%s` when using token `%s` : %s", e.url, e.apiToken, e.errorString)
}

// HTTPError is generated when we receive an unhandled error from the server. This error contains the error string.
type HTTPError struct {
	StatusCode  int
	Status      string
	ErrorString string
	Data        map[string]any
}

// Error formats an error string.
func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s: %s", e.Status, e.ErrorString)
}

// RestClient manages the REST interface for a calling user.
type RestClient struct {
	serverURL  url.URL
	apiToken   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// MakeRestClient is the factory for constructing a RestClient for a given endpoint.
// A positive requestsPerSecond throttles every call.
func MakeRestClient(url url.URL, apiToken string, requestsPerSecond float64) RestClient {
	client := RestClient{
		serverURL:  url,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	if requestsPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return client
}

// ParseRestClient parses address and builds a RestClient for it.
func ParseRestClient(address, apiToken string, requestsPerSecond float64) (RestClient, error) {
	u, err := url.Parse(address)
	if err != nil {
		return RestClient{}, serr.Wrap(serr.KindConfiguration, err, "address", address)
	}
	if u.Scheme == "" || u.Host == "" {
		return RestClient{}, serr.Configuration("algod address must be an absolute URL", "address", address)
	}
	return MakeRestClient(*u, apiToken, requestsPerSecond), nil
}

// filterASCII filter out the non-ascii printable characters out of the given input string.
// It's used as a security qualifier before adding network provided data into an error message.
func filterASCII(unfilteredString string) (filteredString string) {
	for i, r := range unfilteredString {
		if int(r) >= 0x20 && int(r) <= 0x7e {
			filteredString += string(unfilteredString[i])
		}
	}
	return
}

// extractError checks if the response signifies an error (for now, StatusCode != 200 or StatusCode != 201).
// If so, it returns the error.
// Otherwise, it returns nil.
func extractError(resp *http.Response) error {
	if resp.StatusCode == 200 || resp.StatusCode == 201 {
		return nil
	}

	errorBuf, _ := io.ReadAll(resp.Body) // ignore returned error
	var errorJSON ErrorResponse
	decodeErr := json.Unmarshal(errorBuf, &errorJSON)

	var errorString string
	var data map[string]any
	if decodeErr == nil {
		errorString = errorJSON.Message
		if errorJSON.Data != nil {
			data = *errorJSON.Data
		}
	} else {
		errorString = string(errorBuf)
	}
	errorString = filterASCII(errorString)

	if resp.StatusCode == http.StatusUnauthorized {
		apiToken := resp.Request.Header.Get(authHeader)
		return unauthorizedRequestError{errorString, apiToken, resp.Request.URL.String()}
	}

	return HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, ErrorString: errorString, Data: data}
}

// classify attaches an error kind. A 4xx answer to a submission is the
// network refusing the group; other 4xx answers mean the request itself was wrong,
// except 404 which the pool answers for transactions it has not seen yet.
func classify(err error, path string, requestMethod string) error {
	var unauthorized unauthorizedRequestError
	if errors.As(err, &unauthorized) {
		return serr.Wrap(serr.KindConfiguration, err, "path", path)
	}
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		return serr.Transient(err, "path", path)
	}
	switch {
	case httpErr.StatusCode >= 500:
		return serr.Transient(err, "path", path, "status", httpErr.StatusCode)
	case requestMethod == http.MethodPost && path == "/v2/transactions":
		return serr.Wrap(serr.KindRejection, err, "path", path, "status", httpErr.StatusCode)
	case httpErr.StatusCode == http.StatusNotFound:
		return serr.Transient(err, "path", path, "status", httpErr.StatusCode)
	default:
		return serr.Wrap(serr.KindConfiguration, err, "path", path, "status", httpErr.StatusCode)
	}
}

// stripTransaction gets a transaction of the form "tx-XXXXXXXX" and truncates the "tx-" part, if it starts with "tx-"
func stripTransaction(tx string) string {
	if strings.HasPrefix(tx, "tx-") {
		return strings.SplitAfter(tx, "-")[1]
	}
	return tx
}

// mergeRawQueries merges two raw queries, appending an "&" if both are non-empty
func mergeRawQueries(q1, q2 string) string {
	if q1 == "" || q2 == "" {
		return q1 + q2
	}
	return q1 + "&" + q2
}

// submitForm is a helper used for submitting (ex.) GETs and POSTs to the server
func (client RestClient) submitForm(ctx context.Context,
	response interface{}, path string, params interface{}, body interface{}, requestMethod string) error {

	var err error
	queryURL := client.serverURL
	queryURL.Path = strings.TrimRight(queryURL.Path, "/") + path

	var bodyReader io.Reader
	var v url.Values

	if params != nil {
		v, err = query.Values(params)
		if err != nil {
			return err
		}
	}

	if requestMethod == http.MethodPost && rawRequestPaths[path] {
		reqBytes, ok := body.([]byte)
		if !ok {
			return fmt.Errorf("couldn't decode raw request as bytes")
		}
		bodyReader = bytes.NewBuffer(reqBytes)
	}

	queryURL.RawQuery = mergeRawQueries(queryURL.RawQuery, v.Encode())

	if client.limiter != nil {
		if err = client.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, requestMethod, queryURL.String(), bodyReader)
	if err != nil {
		return err
	}

	if path != healthCheckEndpoint {
		req.Header.Set(authHeader, client.apiToken)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/x-binary")
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return classify(err, path, requestMethod)
	}

	// Ensure response isn't too large
	resp.Body = http.MaxBytesReader(nil, resp.Body, maxRawResponseBytes)
	defer resp.Body.Close()

	err = extractError(resp)
	if err != nil {
		return classify(err, path, requestMethod)
	}

	if response == nil {
		return nil
	}
	dec := protocol.NewLenientJSONDecoder(resp.Body)
	return dec.Decode(response)
}

// get performs a GET request to the specific path against the server
func (client RestClient) get(ctx context.Context, response interface{}, path string, request interface{}) error {
	return client.submitForm(ctx, response, path, request, nil, http.MethodGet)
}

// post sends a POST request with a raw body to the given path.
func (client RestClient) post(ctx context.Context, response interface{}, path string, params interface{}, body []byte) error {
	return client.submitForm(ctx, response, path, params, body, http.MethodPost)
}

// HealthCheck does a health check on the potentially running node,
// returning an error if the API is down
func (client RestClient) HealthCheck(ctx context.Context) error {
	return client.get(ctx, nil, healthCheckEndpoint, nil)
}

// Status retrieves the StatusResponse from the running node
// the StatusResponse includes data like the consensus version and current round
func (client RestClient) Status(ctx context.Context) (response NodeStatusResponse, err error) {
	err = client.get(ctx, &response, "/v2/status", nil)
	return
}

// WaitForBlockAfter returns the node status after trying to wait for the given
// round+1. This REST API has the documented misfeatures of returning after 1
// minute, regardless of whether the given block has been reached.
func (client RestClient) WaitForBlockAfter(ctx context.Context, round basics.Round) (response NodeStatusResponse, err error) {
	err = client.get(ctx, &response, fmt.Sprintf("/v2/status/wait-for-block-after/%d", round), nil)
	return
}

// SuggestedParams gets the suggested transaction parameters
func (client RestClient) SuggestedParams(ctx context.Context) (response TransactionParametersResponse, err error) {
	err = client.get(ctx, &response, "/v2/transactions/params", nil)
	return
}

// SendRawTransactionGroup gets a SignedTxn group and broadcasts it to the network
func (client RestClient) SendRawTransactionGroup(ctx context.Context, txgroup []transactions.SignedTxn) (response PostTransactionsResponse, err error) {
	var enc []byte
	for i := range txgroup {
		enc = append(enc, protocol.Encode(&txgroup[i])...)
	}
	err = client.post(ctx, &response, "/v2/transactions", nil, enc)
	return
}

// PendingTransactionInformation gets information about a recently issued
// transaction. The node keeps committed transactions here for a while.
func (client RestClient) PendingTransactionInformation(ctx context.Context, transactionID string) (response PendingTransactionResponse, err error) {
	transactionID = stripTransaction(transactionID)
	err = client.get(ctx, &response, fmt.Sprintf("/v2/transactions/pending/%s", transactionID), rawFormat{Format: "json"})
	return
}

type rawFormat struct {
	Format string `url:"format"`
}

type accountInformationParams struct {
	Format  string `url:"format"`
	Exclude string `url:"exclude,omitempty"`
}

// AccountInformation gets the AccountData associated with the passed address
func (client RestClient) AccountInformation(ctx context.Context, address string) (response Account, err error) {
	err = client.get(ctx, &response, fmt.Sprintf("/v2/accounts/%s", address), accountInformationParams{Format: "json"})
	return
}

// ApplicationInformation gets the ApplicationInformationResponse associated
// with the passed application index
func (client RestClient) ApplicationInformation(ctx context.Context, index basics.AppIndex) (response Application, err error) {
	err = client.get(ctx, &response, fmt.Sprintf("/v2/applications/%d", index), nil)
	return
}

// AssetInformation gets the AssetInformationResponse associated with the passed asset index
func (client RestClient) AssetInformation(ctx context.Context, index basics.AssetIndex) (response Asset, err error) {
	err = client.get(ctx, &response, fmt.Sprintf("/v2/assets/%d", index), nil)
	return
}

// Compile compiles the given program and returned the compiled program
func (client RestClient) Compile(ctx context.Context, program []byte) (compiledProgram []byte, programHash crypto.Digest, err error) {
	var compileResponse CompileResponse
	err = client.post(ctx, &compileResponse, "/v2/teal/compile", nil, program)
	if err != nil {
		return nil, crypto.Digest{}, err
	}
	compiledProgram, err = base64.StdEncoding.DecodeString(compileResponse.Result)
	if err != nil {
		return nil, crypto.Digest{}, err
	}
	var progAddr basics.Address
	progAddr, err = basics.UnmarshalChecksumAddress(compileResponse.Hash)
	if err != nil {
		return nil, crypto.Digest{}, err
	}
	programHash = crypto.Digest(progAddr)
	return
}
