package tdesc

// ExampleFile is the commented starter description written by `anvil init`.
// It loads as-is and describes a small 32-bit machine with one integer
// register file.
const ExampleFile = `# anvil target description.
#
# A description names the register files of a machine and assigns one to
# each value type the machine supports natively. Everything else the
# legalization table needs is derived from those assignments.

triple = "riscv32-unknown-linux-gnu"

# Reciprocal-estimate overrides. Single-token forms: "all", "none",
# "default", each with an optional :N refinement step count. Or a comma
# list of per-operation entries: divf, divd, divh, sqrtf, sqrtd, sqrth,
# their vec- forms, a ! prefix to disable, a :N suffix for steps.
recip-estimates = ""

# One block per register file. types lists every value type the class can
# hold (used when picking spill classes); spill-bytes is the stack slot
# size of one register.
[[register-class]]
name = "gpr"
spill-bytes = 4
types = ["i32"]

# A float file would look like this. super-classes names classes whose
# registers contain this class's registers as subregister views.
#
# [[register-class]]
# name = "fpr32"
# spill-bytes = 4
# types = ["f32"]
# super-classes = ["fpr64"]
#
# [[register-class]]
# name = "fpr64"
# spill-bytes = 8
# types = ["f32", "f64"]

# Assigning a register class is what makes a value type legal.
[legal]
i32 = "gpr"

# Optional per-type override of the first move tried for an illegal
# vector: default, promote, widen, split or scalarize.
[vector-action]
# v8i8 = "widen"
`
