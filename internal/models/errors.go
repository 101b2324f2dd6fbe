package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Referential errors
var (
	ErrReferenceInvalid  = errors.New("a resource ID you specified did not identify an existing resource")
	ErrAmountNotPositive = errors.New("the amount must be positive")
)

// Employee errors
var (
	ErrEmployeeEmailNotUnique = errors.New("an employee with this email address already exists")
	ErrEmployeeInactive       = errors.New("the employee is inactive")
	ErrRoleInvalid            = errors.New("the employee role is not valid")
	ErrManagerCycle           = errors.New("the reporting manager chain must not contain a cycle")
	ErrManagerIsSelf          = errors.New("an employee cannot be their own reporting manager")
)

// ExpenseType errors
var (
	ErrExpenseTypeNameNotUnique = errors.New("an expense type with this name already exists")
	ErrExpenseTypeInactive      = errors.New("the expense type is inactive")
	ErrExpenseTypeInUse         = errors.New("the expense type is still referenced by allocations or claims and cannot be deleted")
)

// Allocation errors
var (
	ErrAllocationOwnerMismatch  = errors.New("the allocation does not belong to the claiming employee")
	ErrEngineerApprovalRequired = errors.New("the allocation requires engineer approval before head-office approval")
)

// Claim lifecycle errors
var (
	ErrClaimNotPending  = errors.New("the claim has already been verified or rejected")
	ErrClaimNotVerified = errors.New("the claim must be verified by an engineer before head-office approval")
	ErrClaimNotEditable = errors.New("the claim can only be changed while it is pending verification")
)
