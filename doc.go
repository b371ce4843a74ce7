/*
Package lama validates structural material definitions and drives an external
finite-element solver (CalculiX, "ccx") on input decks.

# Concept

A material is one of four variants: isotropic, orthotropic, a raw 6x6
stiffness matrix, or a spring. Every variant passes field-level checks
(presence, finiteness, physical bounds) and, where a constitutive tensor
exists, a positive-definiteness check before it is accepted. Validated
materials can be turned into their 6x6 stiffness tensor in Voigt order
(11, 22, 33, 12, 13, 23), stored, and served over HTTP.

The solver side locates the executable on the host (well-known install paths,
then the OS search command) and runs it synchronously on an input deck,
reporting each state of the run through hooks.

# Usage

	wb := lama.New(lama.WithLogger(logger))

	steel, err := wb.Define(ctx, domain.KindIsotropic, material.Fields{
		"name": "Steel", "density": 7850, "E": 210e9, "nu": 0.3,
	})
	if err != nil {
		for _, e := range domain.ValidationErrors(err) {
			fmt.Println(e)
		}
		return
	}

	tensor, err := wb.Tensor(ctx, steel)

	res, err := wb.Run(ctx, solver.Request{Input: "beam.inp"})
	if errors.Is(err, domain.ErrExecutableNotFound) {
		// install ccx or configure solver.executable
	}
	fmt.Println(res.ExitCode)

The command line front-end lives in cmd/lama.
*/
package lama
