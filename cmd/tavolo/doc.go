// Package cmd/tavolo provides the Tavolo ordering platform CLI.
//
// Install:
//
//	go install github.com/tavolo/tavolo/cmd/tavolo@latest
//
// Typical flows:
//
//	tavolo menu                 # browse the menu (works as a guest)
//	tavolo cart:add mn-1 2      # add two of an item
//	tavolo cart                 # show the cart with server totals
//	tavolo checkout --type takeaway --pay cash
//	tavolo orders               # order history
//
//	tavolo login <phone|email>  # sign in (password prompted)
//	tavolo whoami               # session and landing route
//	tavolo logout
//
//	tavolo events               # bookable events
//	tavolo dev:server           # run the bundled in-memory backend
//
// Guests get a persistent session id automatically; carts and orders
// made as a guest stay with that id. API_BASE_URL in .env points the
// client at a backend, API_BASE_URL=http://localhost:8080 matches the
// bundled dev server.
package main
