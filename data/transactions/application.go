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

package transactions

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/data/basics"
)

// OnCompletion is an enum representing some layer 1 side effect that an
// ApplicationCall transaction will have if it is included in a block.
type OnCompletion uint64

const (
	// NoOpOC indicates that an application transaction will simply call its
	// ApprovalProgram
	NoOpOC OnCompletion = 0

	// OptInOC indicates that an application transaction will allocate some
	// LocalState for the application in the sender's account
	OptInOC OnCompletion = 1

	// CloseOutOC indicates that an application transaction will deallocate
	// some LocalState for the application from the user's account
	CloseOutOC OnCompletion = 2

	// ClearStateOC is similar to CloseOutOC, but may never fail.
	ClearStateOC OnCompletion = 3

	// UpdateApplicationOC indicates that an application transaction will
	// update the ApprovalProgram and ClearStateProgram for the application
	UpdateApplicationOC OnCompletion = 4

	// DeleteApplicationOC indicates that an application transaction will
	// delete the AppParams for the application from the creator's balance
	// record
	DeleteApplicationOC OnCompletion = 5
)

func (oc OnCompletion) String() string {
	switch oc {
	case NoOpOC:
		return "NoOp"
	case OptInOC:
		return "OptIn"
	case CloseOutOC:
		return "CloseOut"
	case ClearStateOC:
		return "ClearState"
	case UpdateApplicationOC:
		return "UpdateApplication"
	case DeleteApplicationOC:
		return "DeleteApplication"
	}
	return fmt.Sprintf("OnCompletion(%d)", uint64(oc))
}

// ApplicationCallTxnFields captures the transaction fields used for all
// interactions with applications
type ApplicationCallTxnFields struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// ApplicationID is 0 when creating an application, and nonzero when
	// calling an existing application.
	ApplicationID basics.AppIndex `codec:"apid"`

	// OnCompletion specifies an optional side-effect that this transaction
	// will have on the balance record of the sender or the application's
	// creator.
	OnCompletion OnCompletion `codec:"apan"`

	// ApplicationArgs are arguments accessible to the executing
	// ApprovalProgram or ClearStateProgram.
	ApplicationArgs [][]byte `codec:"apaa"`

	// Accounts are accounts whose balance records are accessible
	// by the executing ApprovalProgram or ClearStateProgram.
	Accounts []basics.Address `codec:"apat"`

	// ForeignApps are application IDs for applications besides
	// this one whose state may be read by the executing program.
	ForeignApps []basics.AppIndex `codec:"apfa"`

	// ForeignAssets are asset IDs for assets whose AssetParams
	// and Holdings may be read by the executing program.
	ForeignAssets []basics.AssetIndex `codec:"apas"`

	// LocalStateSchema and GlobalStateSchema are only used during
	// application creation (when the ApplicationID field is 0).
	LocalStateSchema  basics.StateSchema `codec:"apls"`
	GlobalStateSchema basics.StateSchema `codec:"apgs"`

	ApprovalProgram   []byte `codec:"apap"`
	ClearStateProgram []byte `codec:"apsu"`

	// ExtraProgramPages specifies the additional app program len requested in pages.
	ExtraProgramPages uint32 `codec:"apep,omitempty"`

	// If you add any fields here, remember you MUST modify the Empty
	// method below!
}

// Empty indicates whether or not all the fields in the
// ApplicationCallTxnFields are zeroed out
func (ac *ApplicationCallTxnFields) Empty() bool {
	if ac.ApplicationID != 0 {
		return false
	}
	if ac.OnCompletion != 0 {
		return false
	}
	if ac.ApplicationArgs != nil {
		return false
	}
	if ac.Accounts != nil {
		return false
	}
	if ac.ForeignApps != nil {
		return false
	}
	if ac.ForeignAssets != nil {
		return false
	}
	if ac.LocalStateSchema != (basics.StateSchema{}) {
		return false
	}
	if ac.GlobalStateSchema != (basics.StateSchema{}) {
		return false
	}
	if ac.ApprovalProgram != nil {
		return false
	}
	if ac.ClearStateProgram != nil {
		return false
	}
	if ac.ExtraProgramPages != 0 {
		return false
	}
	return true
}

// ProgramVersion extracts the version of an AVM program from its bytecode
func ProgramVersion(bytecode []byte) (version uint64, length int, err error) {
	if len(bytecode) == 0 {
		return 0, 0, errors.New("invalid program (empty)")
	}
	version, vlen := binary.Uvarint(bytecode)
	if vlen <= 0 {
		return 0, 0, errors.New("invalid version")
	}
	return version, vlen, nil
}

// syncProgramsVersion is version of AVM programs that are required to have
// matching versions between approval and clearstate.
const syncProgramsVersion = 6

// wellFormed performs some stateless checks on the ApplicationCall transaction
func (ac ApplicationCallTxnFields) wellFormed(proto config.ConsensusParams) error {
	// Ensure requested action is valid
	switch ac.OnCompletion {
	case NoOpOC, OptInOC, CloseOutOC, ClearStateOC, UpdateApplicationOC, DeleteApplicationOC:
		/* ok */
	default:
		return fmt.Errorf("invalid application OnCompletion")
	}

	if ac.ApplicationID == 0 {
		av, _, err := ProgramVersion(ac.ApprovalProgram)
		if err != nil {
			return fmt.Errorf("bad ApprovalProgram: %v", err)
		}
		cv, _, err := ProgramVersion(ac.ClearStateProgram)
		if err != nil {
			return fmt.Errorf("bad ClearStateProgram: %v", err)
		}
		if (av >= syncProgramsVersion || cv >= syncProgramsVersion) && av != cv {
			return fmt.Errorf("program version mismatch: %d != %d", av, cv)
		}
	} else {
		// Programs may only be set for creation or update
		if ac.OnCompletion != UpdateApplicationOC && (len(ac.ApprovalProgram) != 0 || len(ac.ClearStateProgram) != 0) {
			return fmt.Errorf("programs may only be specified during application creation or update")
		}
		if ac.LocalStateSchema != (basics.StateSchema{}) ||
			ac.GlobalStateSchema != (basics.StateSchema{}) {
			return fmt.Errorf("local and global state schemas are immutable")
		}
	}

	// Limit total number of arguments
	if len(ac.ApplicationArgs) > proto.MaxAppArgs {
		return fmt.Errorf("too many application args, max %d", proto.MaxAppArgs)
	}

	// Sum up argument lengths
	var argSum uint64
	for _, arg := range ac.ApplicationArgs {
		argSum = basics.AddSaturate(argSum, uint64(len(arg)))
	}

	// Limit total length of all arguments
	if argSum > uint64(proto.MaxAppTotalArgLen) {
		return fmt.Errorf("application args total length too long, max len %d bytes", proto.MaxAppTotalArgLen)
	}

	// Limit number of accounts referred to in a single ApplicationCall
	if len(ac.Accounts) > proto.MaxAppTxnAccounts {
		return fmt.Errorf("tx.Accounts too long, max number of accounts is %d", proto.MaxAppTxnAccounts)
	}

	// Limit number of other app global states referred to
	if len(ac.ForeignApps) > proto.MaxAppTxnForeignApps {
		return fmt.Errorf("tx.ForeignApps too long, max number of foreign apps is %d", proto.MaxAppTxnForeignApps)
	}

	if len(ac.ForeignAssets) > proto.MaxAppTxnForeignAssets {
		return fmt.Errorf("tx.ForeignAssets too long, max number of foreign assets is %d", proto.MaxAppTxnForeignAssets)
	}

	// Limit the sum of all types of references that bring in account records
	if len(ac.Accounts)+len(ac.ForeignApps)+len(ac.ForeignAssets) > proto.MaxAppTotalTxnReferences {
		return fmt.Errorf("tx references exceed MaxAppTotalTxnReferences = %d", proto.MaxAppTotalTxnReferences)
	}

	return nil
}
