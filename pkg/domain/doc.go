// Package domain contains the core domain entities of the traffic-violation
// system: license plates, tickets, vehicles and users. These types mirror the
// backend's wire contracts but stay free of transport concerns so they can be
// shared across packages.
package domain
