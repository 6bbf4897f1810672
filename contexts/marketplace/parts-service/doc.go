// Package parts is the car-parts catalog: public browsing and
// seller-owned listings with admin override.
package parts
