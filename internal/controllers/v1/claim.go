package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/expenseflow/backend/internal/httputil"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	"github.com/expenseflow/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterClaimRoutes registers the routes for claims with the RouterGroup
// that is passed.
func RegisterClaimRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsClaimList)
		r.GET("", GetClaims)
		r.POST("", CreateClaim)
	}

	// Claim with ID
	{
		r.OPTIONS("/:id", OptionsClaimDetail)
		r.GET("/:id", GetClaim)
		r.PATCH("/:id", UpdateClaim)
		r.DELETE("/:id", DeleteClaim)
	}

	// Approval stages
	{
		r.POST("/:id/verify", VerifyClaim)
		r.POST("/:id/approve", ApproveClaim)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Claims
// @Success		204
// @Router			/v1/claims [options]
func OptionsClaimList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Claims
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/claims/{id} [options]
func OptionsClaimDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Claim{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create claim
// @Description	Creates a new claim. The request body can be JSON or multipart form data with the receipt in the "receipt" field. Claims for other employees can only be created by administrators.
// @Tags			Claims
// @Accept			json
// @Accept			mpfd
// @Produce		json
// @Success		201		{object}	ClaimResponse
// @Failure		400		{object}	ClaimResponse
// @Failure		403		{object}	ClaimResponse
// @Failure		404		{object}	ClaimResponse
// @Failure		500		{object}	ClaimResponse
// @Param			claim	body		ClaimEditable	true	"Claim"
// @Router			/v1/claims [post]
func CreateClaim(c *gin.Context) {
	me := currentEmployee(c)

	var editable ClaimEditable
	var receiptURL string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var form claimForm
		err := c.ShouldBind(&form)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ClaimResponse{Error: &e})
			return
		}

		editable, err = form.parse()
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ClaimResponse{Error: &e})
			return
		}

		// The receipt is optional. When it is present the claim is only
		// created if storing succeeds.
		header, err := c.FormFile("receipt")
		if err == nil {
			file, err := header.Open()
			if err != nil {
				e := storage.ErrUploadFailed.Error()
				c.JSON(status(storage.ErrUploadFailed), ClaimResponse{Error: &e})
				return
			}
			defer file.Close()

			receiptURL, err = Files.Store(header.Filename, header.Header.Get("Content-Type"), file)
			if err != nil {
				e := err.Error()
				c.JSON(status(err), ClaimResponse{Error: &e})
				return
			}
			editable.FileURL = receiptURL
		}
	} else {
		err := httputil.BindData(c, &editable)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ClaimResponse{Error: &e})
			return
		}
	}

	// The requester is the default owner
	if editable.EmployeeID == uuid.Nil {
		editable.EmployeeID = me.ID
	}

	if !policy.CanPerform(me.Principal(), policy.ActionEditClaim, editable.EmployeeID) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), ClaimResponse{Error: &e})
		return
	}

	claim := editable.model()

	err := models.DB.Create(&claim).Error
	if err != nil {
		// The claim row failed, do not leave the receipt behind
		if receiptURL != "" {
			_ = Files.Delete(receiptURL)
		}

		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	data := newClaim(c, claim)
	c.JSON(http.StatusCreated, ClaimResponse{Data: &data})
}

// lifecycleCondition translates a derived lifecycle state into the
// condition on the persisted columns.
func lifecycleCondition(q *gorm.DB, lifecycle models.Lifecycle) (*gorm.DB, error) {
	switch lifecycle {
	case models.LifecycleCreated:
		return q.Where("verified_by_id IS NULL AND approved_by_id IS NULL"), nil
	case models.LifecycleVerified:
		return q.Where("verified_by_id IS NOT NULL AND approved_by_id IS NULL AND status = ?", models.StatusApproved), nil
	case models.LifecycleVerifiedRejected:
		return q.Where("verified_by_id IS NOT NULL AND approved_by_id IS NULL AND status = ?", models.StatusRejected), nil
	case models.LifecycleFinalApproved:
		return q.Where("approved_by_id IS NOT NULL AND status = ?", models.StatusApproved), nil
	case models.LifecycleFinalRejected:
		return q.Where("approved_by_id IS NOT NULL AND status = ?", models.StatusRejected), nil
	}

	return nil, errLifecycleInvalid
}

// @Summary		Get claims
// @Description	Returns a list of claims. Employees without elevated roles only see their own claims.
// @Tags			Claims
// @Produce		json
// @Success		200	{object}	ClaimListResponse
// @Failure		400	{object}	ClaimListResponse
// @Router			/v1/claims [get]
// @Param			employee	query	string	false	"Filter by employee ID"
// @Param			expenseType	query	string	false	"Filter by expense type ID"
// @Param			allocation	query	string	false	"Filter by allocation ID"
// @Param			status		query	string	false	"Filter by raw approval status"
// @Param			lifecycle	query	string	false	"Filter by derived lifecycle state"
// @Param			offset		query	uint	false	"The offset of the first claim returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of claims to return. Defaults to 50."
func GetClaims(c *gin.Context) {
	me := currentEmployee(c)

	var filter ClaimQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()

	q := models.DB.
		Order("created_at DESC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "Lifecycle") {
		var err error
		q, err = lifecycleCondition(q, filter.Lifecycle)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ClaimListResponse{Error: &e})
			return
		}
	}

	// Without elevated rights, the scope is always the requester's own rows
	if !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		q = q.Where("employee_id = ?", me.ID)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 claims and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var claims []models.Claim
	err := q.Find(&claims).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimListResponse{Error: &e})
		return
	}

	data := make([]Claim, 0)
	for _, claim := range claims {
		data = append(data, newClaim(c, claim))
	}

	c.JSON(http.StatusOK, ClaimListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get claim
// @Description	Returns a specific claim
// @Tags			Claims
// @Produce		json
// @Success		200	{object}	ClaimResponse
// @Failure		400	{object}	ClaimResponse
// @Failure		403	{object}	ClaimResponse
// @Failure		404	{object}	ClaimResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/claims/{id} [get]
func GetClaim(c *gin.Context) {
	me := currentEmployee(c)

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	var claim models.Claim
	err = models.DB.First(&claim, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	if claim.EmployeeID != me.ID && !policy.CanPerform(me.Principal(), policy.ActionViewAll, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), ClaimResponse{Error: &e})
		return
	}

	data := newClaim(c, claim)
	c.JSON(http.StatusOK, ClaimResponse{Data: &data})
}

// @Summary		Update claim
// @Description	Update a claim. Only values to be updated need to be specified. Claims can only be changed by their owner or an administrator, and only while no verification has been recorded.
// @Tags			Claims
// @Accept			json
// @Produce		json
// @Success		200		{object}	ClaimResponse
// @Failure		400		{object}	ClaimResponse
// @Failure		403		{object}	ClaimResponse
// @Failure		404		{object}	ClaimResponse
// @Param			id		path		URIID			true	"ID formatted as string"
// @Param			claim	body		ClaimEditable	true	"Claim"
// @Router			/v1/claims/{id} [patch]
func UpdateClaim(c *gin.Context) {
	me := currentEmployee(c)

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	var claim models.Claim
	err = models.DB.First(&claim, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	if !policy.CanPerform(me.Principal(), policy.ActionEditClaim, claim.EmployeeID) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), ClaimResponse{Error: &e})
		return
	}

	if !claim.Editable() {
		e := models.ErrClaimNotEditable.Error()
		c.JSON(status(models.ErrClaimNotEditable), ClaimResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ClaimEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	// The owner of a claim is fixed at creation
	updateFields = slices.DeleteFunc(updateFields, func(f any) bool { return f == "EmployeeID" })

	var data ClaimEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	// Updates run against a partial struct, so the create-time checks
	// have to be repeated here on the incoming values.
	if slices.Contains(updateFields, "Amount") && !data.Amount.IsPositive() {
		e := models.ErrAmountNotPositive.Error()
		c.JSON(status(models.ErrAmountNotPositive), ClaimResponse{Error: &e})
		return
	}

	if slices.Contains(updateFields, "ExpenseTypeID") {
		err = models.CheckExpenseType(models.DB, data.ExpenseTypeID)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ClaimResponse{Error: &e})
			return
		}
	}

	if slices.Contains(updateFields, "AllocationID") && data.AllocationID != nil && *data.AllocationID != uuid.Nil {
		var allocation models.Allocation
		err = models.DB.First(&allocation, "id = ?", *data.AllocationID).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), ClaimResponse{Error: &e})
			return
		}
		if allocation.EmployeeID != claim.EmployeeID {
			e := models.ErrAllocationOwnerMismatch.Error()
			c.JSON(status(models.ErrAllocationOwnerMismatch), ClaimResponse{Error: &e})
			return
		}
	}

	err = models.DB.Model(&claim).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	r := newClaim(c, claim)
	c.JSON(http.StatusOK, ClaimResponse{Data: &r})
}

// @Summary		Delete claim
// @Description	Deletes a claim. Claims can only be deleted by their owner or an administrator, and only while no verification has been recorded.
// @Tags			Claims
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/claims/{id} [delete]
func DeleteClaim(c *gin.Context) {
	me := currentEmployee(c)

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var claim models.Claim
	err = models.DB.First(&claim, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if !policy.CanPerform(me.Principal(), policy.ActionEditClaim, claim.EmployeeID) {
		c.JSON(status(errForbidden), httpError{Error: errForbidden.Error()})
		return
	}

	if !claim.Editable() {
		c.JSON(status(models.ErrClaimNotEditable), httpError{Error: models.ErrClaimNotEditable.Error()})
		return
	}

	err = models.DB.Delete(&claim).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if claim.FileURL != "" {
		_ = Files.Delete(claim.FileURL)
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Verify claim
// @Description	Records the engineer verification outcome for a claim. The claim must not have been verified before.
// @Tags			Claims
// @Accept			json
// @Produce		json
// @Success		200			{object}	ClaimResponse
// @Failure		400			{object}	ClaimResponse
// @Failure		403			{object}	ClaimResponse
// @Failure		404			{object}	ClaimResponse
// @Param			id			path		URIID			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	true	"Decision"
// @Router			/v1/claims/{id}/verify [post]
func VerifyClaim(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionVerifyClaim, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), ClaimResponse{Error: &e})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	var decision DecisionRequest
	err = httputil.BindData(c, &decision)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	var claim models.Claim
	err = models.DB.First(&claim, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	err = claim.Verify(models.DB, me.ID, *decision.Approved, decision.Notes)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	countTransition("claim", "engineer", *decision.Approved)
	models.Notify(claim.EmployeeID, fmt.Sprintf("Your claim of %s has been %s by engineering", claim.Amount, claim.Status))

	data := newClaim(c, claim)
	c.JSON(http.StatusOK, ClaimResponse{Data: &data})
}

// @Summary		Approve claim
// @Description	Records the head-office outcome for a claim. The claim must have been verified by an engineer first.
// @Tags			Claims
// @Accept			json
// @Produce		json
// @Success		200			{object}	ClaimResponse
// @Failure		400			{object}	ClaimResponse
// @Failure		403			{object}	ClaimResponse
// @Failure		404			{object}	ClaimResponse
// @Param			id			path		URIID			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	true	"Decision"
// @Router			/v1/claims/{id}/approve [post]
func ApproveClaim(c *gin.Context) {
	me := currentEmployee(c)
	if !policy.CanPerform(me.Principal(), policy.ActionApproveClaim, uuid.Nil) {
		e := errForbidden.Error()
		c.JSON(status(errForbidden), ClaimResponse{Error: &e})
		return
	}

	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	var decision DecisionRequest
	err = httputil.BindData(c, &decision)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	var claim models.Claim
	err = models.DB.First(&claim, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	err = claim.Approve(models.DB, me.ID, *decision.Approved, decision.Notes)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClaimResponse{Error: &e})
		return
	}

	countTransition("claim", "head-office", *decision.Approved)
	models.Notify(claim.EmployeeID, fmt.Sprintf("Your claim of %s has been %s by head office", claim.Amount, claim.Status))

	data := newClaim(c, claim)
	c.JSON(http.StatusOK, ClaimResponse{Data: &data})
}
