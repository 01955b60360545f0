package models

import "errors"

var (
	ErrRedisGet    = errors.New("redis get error")
	ErrRedisSet    = errors.New("redis set error")
	ErrRedisDelete = errors.New("redis delete error")
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInactive = errors.New("session inactive")
	ErrSessionInvalid  = errors.New("session invalid")
	ErrSessionCreating = errors.New("error creating session")
	ErrSessionUpdating = errors.New("error updating session")
)

var (
	ErrDatabaseQuery   = errors.New("database query error")
	ErrDatabaseInsert  = errors.New("database insert error")
	ErrDatabaseUpdate  = errors.New("database update error")
	ErrDatabaseDelete  = errors.New("database delete error")
	ErrDuplicateRecord = errors.New("duplicate record")
)

var (
	ErrInvalidParams  = errors.New("invalid parameters")
	ErrInvalidID      = errors.New("invalid id")
	ErrAdminNotFound  = errors.New("admin not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrWrongPassword  = errors.New("wrong password")
	ErrPasswordHasing = errors.New("password hashing error")
)
