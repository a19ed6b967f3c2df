// Package pickup implements the emergency pickup escalation engine: for each
// student in a dismissed class it walks the guardian chain (primary, then
// secondary, then the backup circle fanned out at once) until a guardian
// accepts or the chain is exhausted, driven by guardian responses and a
// periodic timeout sweep.
package pickup
