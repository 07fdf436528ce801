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

package main

const (
	envDataDir       = "CERTMINT_DATA"
	envCreator       = "CERTMINT_CREATOR_MNEMONIC"
	envSender        = "CERTMINT_SENDER_MNEMONIC"
	envEnclaveKey    = "CERTMINT_ENCLAVE_PUBLIC_KEY"
	lockFilename     = "certmint.lock"
	deploymentPrefix = "deployment_"

	errorNoDataDirectory = "Data directory not specified. Please use -d or set $" + envDataDir + " in your environment."
	errorDataDirLocked   = "failed to lock %s; is another certmint running against this data directory?"
	errorNoMnemonic      = "no mnemonic for %s: pass --%s or set $%s"
	errorBothCreators    = "--creator and --generate-creator are mutually exclusive"

	infoDryRun          = "This is a dry run, not creating the application"
	infoDeployed        = "Created application %d (program hash %s, address %s)"
	infoDeploymentFile  = "Deployment record written to %s"
	infoKeyRotated      = "Signing key of application %d set to %s"
	infoMinted          = "Minted asset %d into escrow %s in round %d"
	infoOptedIn         = "Escrow %s opted in during round %d"
	infoClaimed         = "Asset held by escrow %s claimed by %s in round %d"
	infoNothingPending  = "No pending submissions"
	infoResolution      = "%s %-12s %-10s awaited %s"
	infoAccountNew      = "Created account %s funded with %s Algos"
	infoAccountMnemonic = "Mnemonic: %s"
)
