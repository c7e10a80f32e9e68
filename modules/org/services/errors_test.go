package services_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orgnest/orgnest/modules/org/services"
)

func TestStatusErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    services.StatusError
		status int
		code   string
		msg    string
	}{
		{&services.ValidationError{Field: "Name", Reason: "failed required validation"}, http.StatusBadRequest, "ORG_INVALID_BODY", "Name: failed required validation"},
		{&services.StructuralError{Message: "a national root already exists"}, http.StatusUnprocessableEntity, "ORG_STRUCTURE", "a national root already exists"},
		{&services.NoGrantingOfficeError{UserID: 10, Permission: "org_update"}, http.StatusForbidden, "ORG_NO_GRANTING_OFFICE", "user 10 holds no office granting org_update"},
		{&services.ChainNotFoundError{Permission: "org_update", Target: "unit#3"}, http.StatusForbidden, "ORG_CHAIN_NOT_FOUND", "no authority chain from granting offices to unit#3 for org_update"},
		{&services.NotInChainError{OfficeID: 4}, http.StatusForbidden, "ORG_NOT_IN_CHAIN", "office 4 is not part of an authority chain"},
		{&services.ChainCycleError{OfficeID: 4}, http.StatusUnprocessableEntity, "ORG_CHAIN_CYCLE", "office authority chain cycles at office 4"},
		{&services.HasChildrenError{UnitID: 3}, http.StatusConflict, "ORG_HAS_CHILDREN", "unit 3 still has child units"},
		{&services.NotFoundError{Kind: "unit", Ref: "7"}, http.StatusNotFound, "ORG_NOT_FOUND", "unit 7 not found"},
		{&services.NoParentError{UnitID: 3}, http.StatusInternalServerError, "ORG_NO_PARENT", "unit 3 has no parent to reassign to"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			require.Equal(t, tc.status, tc.err.HTTPStatus())
			require.Equal(t, tc.code, tc.err.ErrorCode())
			require.Equal(t, tc.msg, tc.err.Error())
		})
	}
}
