package services

var CreateUser = (*AuthService).createUser
