// Package universe reads and writes body sets and generates random ones.
//
// A universe file is plain text. The first line holds the body count N.
// An optional header line may follow; it is recognised by a non-numeric
// first field. Then come exactly N records of eight tab-separated reals:
//
//	mass  radius  pos_x  pos_y  pos_z  vel_x  vel_y  vel_z
//
// Record order is body order, and the simulation depends on it staying
// stable. Files written by Write always carry the header.
package universe
