package api

import (
	"errors"
	"fmt"
)

// Request is the code that opens every request of the protocol.
type Request int

const (
	// LoadData lists the available tables and loads the one picked by the client.
	LoadData Request = iota
	// Cluster builds the dendrogram for the loaded data and saves it.
	Cluster
	// LoadDendrogram restores a saved dendrogram for the loaded data.
	LoadDendrogram
)

func (r Request) String() string {
	switch r {
	case LoadData:
		return "load-data"
	case Cluster:
		return "cluster"
	case LoadDendrogram:
		return "load-dendrogram"
	}
	return fmt.Sprintf("request(%d)", int(r))
}

const (
	// OK acknowledges a successful step.
	OK = "OK"
	// NoData is the response for requests that need data before any was loaded.
	NoData = "Dati non caricati"
	// InvalidRequest is the response for unknown request codes and malformed payloads.
	InvalidRequest = "Tipo di richiesta non valido"
)

var (
	// ConnectionErr signals a transport failure. The connection cannot be used any more.
	ConnectionErr = errors.New("connection error")
	// InvalidRequestErr signals an unknown request or a payload of the wrong type.
	InvalidRequestErr = errors.New("invalid request")
)
