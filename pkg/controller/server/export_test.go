package server

var PreProcess = preProcess
