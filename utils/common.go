package utils

// TEPS is the relative slack allowed when landing a time step on a
// scheduled time.
const TEPS = 1.e-9
